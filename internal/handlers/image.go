package handlers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/thaihana/internal/config"
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ImageHandler stores uploaded images on local disk under the
// configured image directory.
type ImageHandler struct {
	cfg *config.Config
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(cfg *config.Config) *ImageHandler {
	return &ImageHandler{cfg: cfg}
}

// UploadImages accepts a multipart form with one or more files under the
// "images" key. Files with unsupported extensions are skipped and
// counted as errors.
func (h *ImageHandler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no images provided")
	}

	if err := os.MkdirAll(h.cfg.ImagePath, 0o755); err != nil {
		return err
	}

	var saved []string
	errCount := 0
	for _, file := range files {
		name := filepath.Base(file.Filename)
		ext := strings.ToLower(filepath.Ext(name))
		if !allowedImageExtensions[ext] {
			errCount++
			continue
		}
		if err := c.SaveFile(file, filepath.Join(h.cfg.ImagePath, name)); err != nil {
			errCount++
			continue
		}
		saved = append(saved, name)
	}

	return c.JSON(fiber.Map{"success": true, "saved": saved, "errors": errCount})
}

// ListImages returns the file names currently stored in the image
// directory.
func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	entries, err := os.ReadDir(h.cfg.ImagePath)
	if err != nil {
		if os.IsNotExist(err) {
			return c.JSON(fiber.Map{"success": true, "data": []string{}})
		}
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": names})
}

// DeleteImage removes a stored image by file name. Path traversal is
// rejected.
func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	name := c.Query("filename")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid image name")
	}

	path := filepath.Join(h.cfg.ImagePath, name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fiber.NewError(fiber.StatusNotFound, "image not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}
