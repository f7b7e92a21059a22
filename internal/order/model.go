package order

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCooking    Status = "cooking"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCooking, StatusDelivering, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// Line is a cart line frozen at placement time. Later catalog edits never
// rewrite it, so historical orders keep the prices the shopper accepted.
type Line struct {
	DishID   uuid.UUID `json:"dish_id" db:"dish_id"`
	Name     string    `json:"name" db:"name"`
	Price    int64     `json:"price" db:"price"`
	Quantity int       `json:"quantity" db:"quantity"`
}

type Order struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.NullUUID `json:"user_id,omitempty" db:"user_id"`
	Lines         []Line        `json:"lines" db:"-"`
	TotalAmount   int64         `json:"total_amount" db:"total_amount"`
	Address       string        `json:"address" db:"address"`
	Phone         string        `json:"phone" db:"phone"`
	Comment       string        `json:"comment,omitempty" db:"comment"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	Status        Status        `json:"status" db:"status"`
	CourierID     uuid.NullUUID `json:"courier_id,omitempty" db:"courier_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// DeliveryDetails is what the shopper fills in at checkout.
type DeliveryDetails struct {
	Address string
	Phone   string
	Comment string
}
