package database

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, customer_id, restaurant_id,
			delivery_name, delivery_phone, delivery_email,
			delivery_street, delivery_city, delivery_state, delivery_zip, delivery_instructions,
			payment_method, card_last4, card_brand, card_expiry,
			subtotal, delivery_fee, tax, total,
			status, estimated_delivery_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, item_id, name, unit_price, quantity,
			selected_options, selected_addons, special_instructions, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	InsertStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, actor_id, reason)
		VALUES ($1, $2, $3, $4)`

	GetOrderSQL = `
		SELECT id, customer_id, restaurant_id,
			delivery_name, delivery_phone, delivery_email,
			delivery_street, delivery_city, delivery_state, delivery_zip, delivery_instructions,
			payment_method, card_last4, card_brand, card_expiry,
			subtotal, delivery_fee, tax, total,
			status, estimated_delivery_minutes,
			created_at, updated_at, cancelled_at, cancellation_reason
		FROM orders WHERE id = $1`

	GetOrderItemsSQL = `
		SELECT item_id, name, unit_price, quantity, selected_options, selected_addons,
			special_instructions, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	GetStatusHistorySQL = `
		SELECT status, actor_id, reason, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`

	ListOrdersByCustomerSQL = `
		SELECT id FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ListOrdersByRestaurantSQL = `
		SELECT id FROM orders
		WHERE restaurant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	ListOrdersByRestaurantStatusSQL = `
		SELECT id FROM orders
		WHERE restaurant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	// UpdateOrderStatusSQL commits a transition only when the order is still
	// in the state the caller validated against. Zero rows affected means a
	// concurrent actor got there first.
	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	UpdateOrderCancelledSQL = `
		UPDATE orders SET status = $1, cancelled_at = NOW(), cancellation_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	IncrementRestaurantOrdersSQL = `
		UPDATE restaurants SET total_orders = total_orders + 1 WHERE id = $1`
)

// Catalog queries
const (
	GetRestaurantSQL = `
		SELECT id, name, owner_id, is_open, delivery_fee, estimated_delivery_minutes, total_orders
		FROM restaurants WHERE id = $1`

	GetMenuItemSQL = `
		SELECT id, restaurant_id, name, price, is_available
		FROM menu_items WHERE id = $1 AND restaurant_id = $2`

	GetMenuItemAddonsSQL = `
		SELECT id, name, price
		FROM menu_item_addons
		WHERE item_id = $1
		ORDER BY id ASC`
)
