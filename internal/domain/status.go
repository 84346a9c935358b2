package domain

import "fmt"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string { return string(s) }

// IsValid reports whether s is a known status value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus converts a wire value into an OrderStatus. Any known status may
// be assigned from any other; there is no transition table yet (if one is
// added it belongs here).
func ParseStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.IsValid() {
		return "", &ValidationError{Msg: fmt.Sprintf("unknown order status %q", s)}
	}
	return status, nil
}
