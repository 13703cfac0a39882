package domain

import "errors"

var (
	ErrStockInsufficient = errors.New("insufficient stock")
	ErrProductNotFound   = errors.New("product not found")
	ErrDiscountNotFound  = errors.New("discount not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidDiscount   = errors.New("invalid discount")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrCategoryInUse     = errors.New("category still has products")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrInvalidCheckout   = errors.New("invalid checkout request")
	ErrInvalidStatus     = errors.New("invalid order status")
)
