package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/utils"
)

// CategoryHandler manages the category tree and product associations.
type CategoryHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(db *gorm.DB, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{db: db, cfg: cfg}
}

// GetCategoryByID returns a category, or null data when absent.
func (h *CategoryHandler) GetCategoryByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	category, err := findOrNil[models.Category](h.db, "id = ?", id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// GetCategoryBySlug returns a category, or null data when absent.
func (h *CategoryHandler) GetCategoryBySlug(c *fiber.Ctx) error {
	category, err := findOrNil[models.Category](h.db, "slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// ListCategories returns visible categories matching an optional name search.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	query := h.db.Model(&models.Category{}).Where("visible = ?", true)
	if search := strings.TrimSpace(c.Query("search_query")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var categories []models.Category
	if err := query.Offset(pg.Offset).Limit(pg.Limit).Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

type createCategoryRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	HeadingID   *uuid.UUID `json:"heading_id"`
	Name        string     `json:"category_name"`
	ImagePath   string     `json:"image_path"`
	Description string     `json:"category_description"`
}

// CreateCategory persists a new category with a slug derived from its name.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category_name is required")
	}

	slug := utils.ToSlug(req.Name)

	var count int64
	if err := h.db.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
	}

	category := models.Category{
		Visible:     true,
		ParentID:    req.ParentID,
		HeadingID:   req.HeadingID,
		Name:        req.Name,
		Slug:        slug,
		ImagePath:   req.ImagePath,
		Description: req.Description,
	}

	if err := h.db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// CategoryPatch lists the optional fields of a partial category update.
type CategoryPatch struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	HeadingID   *uuid.UUID `json:"heading_id"`
	Name        *string    `json:"category_name"`
	ImagePath   *string    `json:"image_path"`
	Description *string    `json:"category_description"`
	Visible     *bool      `json:"visible"`
}

func (p CategoryPatch) apply(category *models.Category) {
	if p.ParentID != nil {
		category.ParentID = p.ParentID
	}
	if p.HeadingID != nil {
		category.HeadingID = p.HeadingID
	}
	if p.Name != nil {
		category.Name = *p.Name
	}
	if p.ImagePath != nil {
		category.ImagePath = *p.ImagePath
	}
	if p.Description != nil {
		category.Description = *p.Description
	}
	if p.Visible != nil {
		category.Visible = *p.Visible
	}
}

// UpdateCategoryByID applies a field-merge patch to an existing category.
func (h *CategoryHandler) UpdateCategoryByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.patchCategory(c, "id = ?", id)
}

// UpdateCategoryBySlug applies a field-merge patch, resolving the slug first.
func (h *CategoryHandler) UpdateCategoryBySlug(c *fiber.Ctx) error {
	return h.patchCategory(c, "slug = ?", c.Params("slug"))
}

func (h *CategoryHandler) patchCategory(c *fiber.Ctx, cond string, value interface{}) error {
	var category models.Category
	if err := h.db.Where(cond, value).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "category doesn't exist")
		}
		return err
	}

	var patch CategoryPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch.apply(&category)
	if err := h.db.Save(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// AddProductByID associates a product with a category. Repeated requests
// are idempotent: the duplicate row is dropped on conflict.
func (h *CategoryHandler) AddProductByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	categoryID, err := uuid.Parse(c.Params("categoryID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	return h.associate(c, productID, categoryID)
}

// AddProductBySlug associates a product with a category by their slugs.
func (h *CategoryHandler) AddProductBySlug(c *fiber.Ctx) error {
	product, category, err := h.resolvePair(c.Params("productSlug"), c.Params("categorySlug"))
	if err != nil {
		return err
	}

	return h.associate(c, product.ID, category.ID)
}

func (h *CategoryHandler) associate(c *fiber.Ctx, productID, categoryID uuid.UUID) error {
	link := models.ProductCategory{ProductID: productID, CategoryID: categoryID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// RemoveProductByID deletes a product-category association.
func (h *CategoryHandler) RemoveProductByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	categoryID, err := uuid.Parse(c.Params("categoryID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
	}

	return h.dissociate(c, productID, categoryID)
}

// RemoveProductBySlug deletes a product-category association by slugs.
func (h *CategoryHandler) RemoveProductBySlug(c *fiber.Ctx) error {
	product, category, err := h.resolvePair(c.Params("productSlug"), c.Params("categorySlug"))
	if err != nil {
		return err
	}

	return h.dissociate(c, product.ID, category.ID)
}

func (h *CategoryHandler) dissociate(c *fiber.Ctx, productID, categoryID uuid.UUID) error {
	if err := h.db.
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Delete(&models.ProductCategory{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func (h *CategoryHandler) resolvePair(productSlug, categorySlug string) (*models.Product, *models.Category, error) {
	var product models.Product
	if err := h.db.Where("slug = ?", productSlug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "product doesn't exist")
		}
		return nil, nil, err
	}

	var category models.Category
	if err := h.db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "category doesn't exist")
		}
		return nil, nil, err
	}

	return &product, &category, nil
}

// findOrNil loads a single row; absence returns nil rather than an error so
// read paths can render null data.
func findOrNil[T any](db *gorm.DB, cond string, value interface{}) (*T, error) {
	var row T
	err := db.Where(cond, value).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
