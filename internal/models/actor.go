package models

// Role represents the kind of principal performing an operation
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

// Actor is an already-authenticated principal. Credential verification
// happens outside this system; the engine only decides what the actor may do.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
