package models

import "github.com/google/uuid"

// Order carries a human-readable number in the form DDMMYYYYNNNNN where the
// five-digit sequence resets every calendar day.
type Order struct {
	BaseModel
	Active      bool        `gorm:"default:true" json:"active"`
	OrderNumber string      `gorm:"uniqueIndex" json:"order_number"`
	MobilePhone string      `json:"mobile_phone"`
	UserID      *uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Items       []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Quantity  int       `json:"quantity"`
}
