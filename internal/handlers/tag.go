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

// TagHandler manages tags and their product associations.
type TagHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewTagHandler constructs TagHandler.
func NewTagHandler(db *gorm.DB, cfg *config.Config) *TagHandler {
	return &TagHandler{db: db, cfg: cfg}
}

// GetTagByID returns a tag, or null data when absent.
func (h *TagHandler) GetTagByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	tag, err := findOrNil[models.Tag](h.db, "id = ?", id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tag})
}

// GetTagBySlug returns a tag, or null data when absent.
func (h *TagHandler) GetTagBySlug(c *fiber.Ctx) error {
	tag, err := findOrNil[models.Tag](h.db, "slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tag})
}

// ListTags returns tags matching an optional name search.
func (h *TagHandler) ListTags(c *fiber.Ctx) error {
	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	query := h.db.Model(&models.Tag{})
	if search := strings.TrimSpace(c.Query("search_query")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var tags []models.Tag
	if err := query.Offset(pg.Offset).Limit(pg.Limit).Find(&tags).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tags})
}

// ListTagsInCategory returns the distinct tags carried by products that are
// associated with the named category.
func (h *TagHandler) ListTagsInCategory(c *fiber.Ctx) error {
	var tags []models.Tag
	if err := h.db.Model(&models.Tag{}).
		Distinct("tags.*").
		Joins("JOIN product_tags pt ON pt.tag_id = tags.id").
		Joins("JOIN product_categories pc ON pc.product_id = pt.product_id").
		Joins("JOIN categories cat ON cat.id = pc.category_id").
		Where("cat.slug = ?", c.Params("categorySlug")).
		Find(&tags).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": tags})
}

type createTagRequest struct {
	Name      string `json:"tag_name"`
	ImagePath string `json:"image_path"`
}

// CreateTag persists a new tag with a slug derived from its name.
func (h *TagHandler) CreateTag(c *fiber.Ctx) error {
	var req createTagRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "tag_name is required")
	}

	slug := utils.ToSlug(req.Name)

	var count int64
	if err := h.db.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
	}

	tag := models.Tag{Name: req.Name, Slug: slug, ImagePath: req.ImagePath}
	if err := h.db.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// TagPatch lists the optional fields of a partial tag update.
type TagPatch struct {
	Name      *string `json:"tag_name"`
	ImagePath *string `json:"image_path"`
}

func (p TagPatch) apply(tag *models.Tag) {
	if p.Name != nil {
		tag.Name = *p.Name
	}
	if p.ImagePath != nil {
		tag.ImagePath = *p.ImagePath
	}
}

// UpdateTagByID applies a field-merge patch to an existing tag.
func (h *TagHandler) UpdateTagByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.patchTag(c, "id = ?", id)
}

// UpdateTagBySlug applies a field-merge patch, resolving the slug first.
func (h *TagHandler) UpdateTagBySlug(c *fiber.Ctx) error {
	return h.patchTag(c, "slug = ?", c.Params("slug"))
}

func (h *TagHandler) patchTag(c *fiber.Ctx, cond string, value interface{}) error {
	var tag models.Tag
	if err := h.db.Where(cond, value).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "tag doesn't exist")
		}
		return err
	}

	var patch TagPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch.apply(&tag)
	if err := h.db.Save(&tag).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// AddProductByID attaches a tag to a product. Repeated requests are
// idempotent.
func (h *TagHandler) AddProductByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	tagID, err := uuid.Parse(c.Params("tagID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tag id")
	}

	return h.associate(c, productID, tagID)
}

// AddProductBySlug attaches a tag to a product by their slugs.
func (h *TagHandler) AddProductBySlug(c *fiber.Ctx) error {
	product, tag, err := h.resolvePair(c.Params("productSlug"), c.Params("tagSlug"))
	if err != nil {
		return err
	}

	return h.associate(c, product.ID, tag.ID)
}

func (h *TagHandler) associate(c *fiber.Ctx, productID, tagID uuid.UUID) error {
	link := models.ProductTag{ProductID: productID, TagID: tagID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// RemoveProductByID detaches a tag from a product.
func (h *TagHandler) RemoveProductByID(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	tagID, err := uuid.Parse(c.Params("tagID"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid tag id")
	}

	return h.dissociate(c, productID, tagID)
}

// RemoveProductBySlug detaches a tag from a product by slugs.
func (h *TagHandler) RemoveProductBySlug(c *fiber.Ctx) error {
	product, tag, err := h.resolvePair(c.Params("productSlug"), c.Params("tagSlug"))
	if err != nil {
		return err
	}

	return h.dissociate(c, product.ID, tag.ID)
}

func (h *TagHandler) dissociate(c *fiber.Ctx, productID, tagID uuid.UUID) error {
	if err := h.db.
		Where("product_id = ? AND tag_id = ?", productID, tagID).
		Delete(&models.ProductTag{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

func (h *TagHandler) resolvePair(productSlug, tagSlug string) (*models.Product, *models.Tag, error) {
	var product models.Product
	if err := h.db.Where("slug = ?", productSlug).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "product doesn't exist")
		}
		return nil, nil, err
	}

	var tag models.Tag
	if err := h.db.Where("slug = ?", tagSlug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, "tag doesn't exist")
		}
		return nil, nil, err
	}

	return &product, &tag, nil
}
