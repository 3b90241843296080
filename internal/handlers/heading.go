package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/utils"
)

// HeadingHandler manages the top-level category groupings.
type HeadingHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHeadingHandler constructs HeadingHandler.
func NewHeadingHandler(db *gorm.DB, cfg *config.Config) *HeadingHandler {
	return &HeadingHandler{db: db, cfg: cfg}
}

// GetHeadingByID returns a heading, or null data when absent.
func (h *HeadingHandler) GetHeadingByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	heading, err := findOrNil[models.Heading](h.db, "id = ?", id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": heading})
}

// GetHeadingBySlug returns a heading, or null data when absent.
func (h *HeadingHandler) GetHeadingBySlug(c *fiber.Ctx) error {
	heading, err := findOrNil[models.Heading](h.db, "slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": heading})
}

// ListHeadings returns visible headings matching an optional name search.
func (h *HeadingHandler) ListHeadings(c *fiber.Ctx) error {
	pg, err := utils.ParsePagination(c, h.cfg.ProductListLimit)
	if err != nil {
		return err
	}

	query := h.db.Model(&models.Heading{}).Where("visible = ?", true)
	if search := strings.TrimSpace(c.Query("search_query")); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var headings []models.Heading
	if err := query.Offset(pg.Offset).Limit(pg.Limit).Find(&headings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": headings})
}

// ListHeadingCategories returns the visible categories grouped under a
// heading, resolved by slug.
func (h *HeadingHandler) ListHeadingCategories(c *fiber.Ctx) error {
	heading, err := findOrNil[models.Heading](h.db, "slug = ?", c.Params("slug"))
	if err != nil {
		return err
	}
	if heading == nil {
		return c.JSON(fiber.Map{"status": "failure"})
	}

	var categories []models.Category
	if err := h.db.
		Where("visible = ?", true).
		Where("heading_id = ?", heading.ID).
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

type createHeadingRequest struct {
	Visible     bool   `json:"visible"`
	Name        string `json:"heading_name"`
	ImagePath   string `json:"image_path"`
	Description string `json:"heading_description"`
}

// CreateHeading persists a new heading with a slug derived from its name.
func (h *HeadingHandler) CreateHeading(c *fiber.Ctx) error {
	var req createHeadingRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "heading_name is required")
	}

	slug := utils.ToSlug(req.Name)

	var count int64
	if err := h.db.Model(&models.Heading{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
	}

	heading := models.Heading{
		Visible:     req.Visible,
		Name:        req.Name,
		Slug:        slug,
		ImagePath:   req.ImagePath,
		Description: req.Description,
	}

	if err := h.db.Create(&heading).Error; err != nil {
		if isUniqueViolation(err) {
			return c.JSON(fiber.Map{"status": "failure", "detail": "slug is already exists"})
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// HeadingPatch lists the optional fields of a partial heading update.
type HeadingPatch struct {
	Visible     *bool   `json:"visible"`
	Name        *string `json:"heading_name"`
	ImagePath   *string `json:"image_path"`
	Description *string `json:"heading_description"`
}

func (p HeadingPatch) apply(heading *models.Heading) {
	if p.Visible != nil {
		heading.Visible = *p.Visible
	}
	if p.Name != nil {
		heading.Name = *p.Name
	}
	if p.ImagePath != nil {
		heading.ImagePath = *p.ImagePath
	}
	if p.Description != nil {
		heading.Description = *p.Description
	}
}

// UpdateHeadingByID applies a field-merge patch to an existing heading.
func (h *HeadingHandler) UpdateHeadingByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	return h.patchHeading(c, "id = ?", id)
}

// UpdateHeadingBySlug applies a field-merge patch, resolving the slug first.
func (h *HeadingHandler) UpdateHeadingBySlug(c *fiber.Ctx) error {
	return h.patchHeading(c, "slug = ?", c.Params("slug"))
}

func (h *HeadingHandler) patchHeading(c *fiber.Ctx, cond string, value interface{}) error {
	var heading models.Heading
	if err := h.db.Where(cond, value).First(&heading).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "heading doesn't exist")
		}
		return err
	}

	var patch HeadingPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	patch.apply(&heading)
	if err := h.db.Save(&heading).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}
