package models

import "github.com/google/uuid"

// Heading is the top-level grouping for categories.
type Heading struct {
	BaseModel
	Visible     bool   `gorm:"default:true" json:"visible"`
	Name        string `json:"heading_name"`
	Slug        string `gorm:"uniqueIndex" json:"heading_slug"`
	Description string `json:"heading_description"`
	ImagePath   string `json:"image_path"`
}

// Category forms a tree via ParentID. A nil ParentID marks a root category.
type Category struct {
	BaseModel
	Visible     bool       `gorm:"default:true" json:"visible"`
	HeadingID   *uuid.UUID `gorm:"type:uuid;index" json:"heading_id"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Name        string     `json:"category_name"`
	Slug        string     `gorm:"uniqueIndex" json:"category_slug"`
	Description string     `json:"category_description"`
	ImagePath   string     `json:"image_path"`
}

// Tag is a flat label attached to products.
type Tag struct {
	BaseModel
	Name      string `json:"tag_name"`
	Slug      string `gorm:"uniqueIndex" json:"tag_slug"`
	ImagePath string `json:"image_path"`
}
