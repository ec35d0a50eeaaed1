package models

import "testing"

func validDelivery() DeliveryDetails {
	return DeliveryDetails{
		Name:   "John Doe",
		Phone:  "+1 555-0123",
		Email:  "john@example.com",
		Street: "123 Main St",
		City:   "Springfield",
		State:  "IL",
		Zip:    "62704",
	}
}

func TestSubmitOrderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitOrderRequest)
		wantErr bool
	}{
		{
			name:    "valid cash order",
			mutate:  func(r *SubmitOrderRequest) {},
			wantErr: false,
		},
		{
			name: "valid card order",
			mutate: func(r *SubmitOrderRequest) {
				r.PaymentMethod = PaymentCard
				r.Card = &CardDetails{Last4: "4242", Brand: "visa", Expiry: "12/27"}
			},
			wantErr: false,
		},
		{
			name:    "missing name",
			mutate:  func(r *SubmitOrderRequest) { r.Delivery.Name = "" },
			wantErr: true,
		},
		{
			name:    "missing street",
			mutate:  func(r *SubmitOrderRequest) { r.Delivery.Street = "   " },
			wantErr: true,
		},
		{
			name:    "invalid phone",
			mutate:  func(r *SubmitOrderRequest) { r.Delivery.Phone = "call me" },
			wantErr: true,
		},
		{
			name:    "unknown payment method",
			mutate:  func(r *SubmitOrderRequest) { r.PaymentMethod = "check" },
			wantErr: true,
		},
		{
			name: "card payment without card details",
			mutate: func(r *SubmitOrderRequest) {
				r.PaymentMethod = PaymentCard
				r.Card = nil
			},
			wantErr: true,
		},
		{
			name: "card payment with short last4",
			mutate: func(r *SubmitOrderRequest) {
				r.PaymentMethod = PaymentCard
				r.Card = &CardDetails{Last4: "42"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &SubmitOrderRequest{
				Delivery:      validDelivery(),
				PaymentMethod: PaymentCash,
			}
			tt.mutate(req)

			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddItemRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     AddItemRequest
		wantErr bool
	}{
		{
			name:    "valid",
			req:     AddItemRequest{RestaurantID: "r1", ItemID: "i1"},
			wantErr: false,
		},
		{
			name:    "missing restaurant",
			req:     AddItemRequest{ItemID: "i1"},
			wantErr: true,
		},
		{
			name:    "missing item",
			req:     AddItemRequest{RestaurantID: "r1"},
			wantErr: true,
		},
		{
			name: "valid addon",
			req: AddItemRequest{
				RestaurantID: "r1", ItemID: "i1",
				Customizations: Customizations{
					SelectedAddons: []Addon{{ID: "cheese", Name: "Cheese", Price: 150}},
				},
			},
			wantErr: false,
		},
		{
			name: "negative addon price",
			req: AddItemRequest{
				RestaurantID: "r1", ItemID: "i1",
				Customizations: Customizations{
					SelectedAddons: []Addon{{ID: "discount", Price: -900}},
				},
			},
			wantErr: true,
		},
		{
			name: "addon without id",
			req: AddItemRequest{
				RestaurantID: "r1", ItemID: "i1",
				Customizations: Customizations{
					SelectedAddons: []Addon{{Name: "Cheese", Price: 150}},
				},
			},
			wantErr: true,
		},
		{
			name: "too many addons",
			req: AddItemRequest{
				RestaurantID: "r1", ItemID: "i1",
				Customizations: Customizations{
					SelectedAddons: make([]Addon, maxAddonsPerLine+1),
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
