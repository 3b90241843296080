package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/utils"
)

// ProductHandler manages the product read surface and admin mutations.
type ProductHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(db *gorm.DB, cfg *config.Config) *ProductHandler {
	return &ProductHandler{db: db, cfg: cfg}
}

// ListProducts returns visible products matching the filter.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	query, err := filteredProducts(h.db, ParseProductFilter(c))
	if err != nil {
		return err
	}

	var products []models.Product
	if err := query.Offset(pg.Offset).Limit(pg.Limit).Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// CountProducts returns the number of visible products matching the filter.
func (h *ProductHandler) CountProducts(c *fiber.Ctx) error {
	sub, err := filteredProducts(h.db, ParseProductFilter(c))
	if err != nil {
		return err
	}

	var total int64
	if err := h.db.Table("(?) AS filtered", sub).Count(&total).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": total})
}

type priceRange struct {
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
}

// PriceRange returns the min and max price over the filtered set.
func (h *ProductHandler) PriceRange(c *fiber.Ctx) error {
	sub, err := filteredProducts(h.db, ParseProductFilter(c))
	if err != nil {
		return err
	}

	var result priceRange
	if err := h.db.Table("(?) AS filtered", sub).
		Select("MIN(filtered.price) AS min_price, MAX(filtered.price) AS max_price").
		Scan(&result).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": result})
}

// GetProductByID returns a visible product, or null data when absent.
func (h *ProductHandler) GetProductByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	product, err := h.visibleProduct("id = ?", id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// GetProductBySlug returns a visible product, or null data when absent.
func (h *ProductHandler) GetProductBySlug(c *fiber.Ctx) error {
	product, err := h.visibleProduct("slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": product})
}

// visibleProduct loads a single visible product; absence is not an error on
// read paths.
func (h *ProductHandler) visibleProduct(cond string, value interface{}) (*models.Product, error) {
	var product models.Product
	err := h.db.Where("visible = ?", true).Where(cond, value).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductCategories returns the categories a product is mapped to.
func (h *ProductHandler) ListProductCategories(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var categories []models.Category
	if err := h.db.Model(&models.Category{}).
		Joins("JOIN product_categories pc ON pc.category_id = categories.id").
		Where("pc.product_id = ?", id).
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// ListProductCategoriesBySlug resolves the product slug first.
func (h *ProductHandler) ListProductCategoriesBySlug(c *fiber.Ctx) error {
	product, err := h.visibleProduct("slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}
	if product == nil {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	}

	var categories []models.Category
	if err := h.db.Model(&models.Category{}).
		Joins("JOIN product_categories pc ON pc.category_id = categories.id").
		Where("pc.product_id = ?", product.ID).
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// ListProductTags returns the tags attached to a product.
func (h *ProductHandler) ListProductTags(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var tags []models.Tag
	if err := h.db.Model(&models.Tag{}).
		Joins("JOIN product_tags pt ON pt.tag_id = tags.id").
		Where("pt.product_id = ?", id).
		Find(&tags).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tags})
}

// ListProductTagsBySlug resolves the product slug first.
func (h *ProductHandler) ListProductTagsBySlug(c *fiber.Ctx) error {
	product, err := h.visibleProduct("slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}
	if product == nil {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	}

	var tags []models.Tag
	if err := h.db.Model(&models.Tag{}).
		Joins("JOIN product_tags pt ON pt.tag_id = tags.id").
		Where("pt.product_id = ?", product.ID).
		Find(&tags).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tags})
}

// ListProductsInCategory returns the paginated visible products mapped
// directly to a category, addressed by id.
func (h *ProductHandler) ListProductsInCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Model(&models.Product{}).
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id = ?", id).
		Where("products.visible = ?", true).
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

// ListProductsWithTag returns the paginated visible products carrying a
// tag, addressed by id.
func (h *ProductHandler) ListProductsWithTag(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	var products []models.Product
	if err := h.db.Model(&models.Product{}).
		Joins("JOIN product_tags pt ON pt.product_id = products.id").
		Where("pt.tag_id = ?", id).
		Where("products.visible = ?", true).
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&products).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": products})
}

type createProductRequest struct {
	Name             string  `json:"product_name"`
	ImagePath        string  `json:"image_path"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"product_description"`
	Measure          string  `json:"measure"`
	Price            float64 `json:"price"`
	Quantity         int     `json:"quantity"`
	Weight           float64 `json:"product_weight"`
}

// CreateProduct persists a new product. The slug is derived from the name
// and weight once, at creation time.
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_name is required")
	}

	slug := utils.ToSlug(fmt.Sprintf("%s %v", req.Name, req.Weight))

	var count int64
	if err := h.db.Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
	}

	product := models.Product{
		Visible:          true,
		Name:             req.Name,
		Slug:             slug,
		ImagePath:        req.ImagePath,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Price:            req.Price,
		Quantity:         req.Quantity,
		Measure:          req.Measure,
		Weight:           req.Weight,
	}
	if product.Measure == "" {
		product.Measure = "gr"
	}

	if err := h.db.Create(&product).Error; err != nil {
		if isUniqueViolation(err) {
			return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// ProductPatch lists the optional fields of a partial product update. A
// patch value wins only when present; the slug is never recomputed.
type ProductPatch struct {
	Name             *string  `json:"product_name"`
	ImagePath        *string  `json:"image_path"`
	ShortDescription *string  `json:"short_description"`
	Description      *string  `json:"product_description"`
	Measure          *string  `json:"measure"`
	Price            *float64 `json:"price"`
	Quantity         *int     `json:"quantity"`
	Weight           *float64 `json:"product_weight"`
	Visible          *bool    `json:"visible"`
}

func (p ProductPatch) apply(product *models.Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.ImagePath != nil {
		product.ImagePath = *p.ImagePath
	}
	if p.ShortDescription != nil {
		product.ShortDescription = *p.ShortDescription
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Measure != nil {
		product.Measure = *p.Measure
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.Weight != nil {
		product.Weight = *p.Weight
	}
	if p.Visible != nil {
		product.Visible = *p.Visible
	}
}

// UpdateProductByID applies a field-merge patch to an existing product.
func (h *ProductHandler) UpdateProductByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.patchProduct(c, "id = ?", id)
}

// UpdateProductBySlug applies a field-merge patch, resolving the slug first.
func (h *ProductHandler) UpdateProductBySlug(c *fiber.Ctx) error {
	return h.patchProduct(c, "slug = ?", c.Params("slug"))
}

func (h *ProductHandler) patchProduct(c *fiber.Ctx, cond string, value interface{}) error {
	var product models.Product
	if err := h.db.Where(cond, value).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "product doesn't exist")
		}
		return err
	}

	var patch ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch.apply(&product)
	if err := h.db.Save(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}
