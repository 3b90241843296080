package models

import "github.com/google/uuid"

type Product struct {
	BaseModel
	Visible          bool    `gorm:"default:true" json:"visible"`
	Name             string  `json:"product_name"`
	Slug             string  `gorm:"uniqueIndex" json:"product_slug"`
	ImagePath        string  `json:"image_path"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"product_description"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	Measure          string  `gorm:"default:gr" json:"measure"`
	Weight           float64 `json:"product_weight"`
}

// ProductCategory links a product to a category. The composite unique index
// makes repeated association requests idempotent.
type ProductCategory struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_product_category" json:"product_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_product_category" json:"category_id"`
}

// ProductTag links a product to a tag.
type ProductTag struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_product_tag" json:"product_id"`
	TagID     uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_product_tag" json:"tag_id"`
}
