package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/models"
)

// defaultMaxPrice is the open upper bound used when max_price is omitted.
const defaultMaxPrice = 999999

// ProductFilter narrows the visible product set. All active criteria combine
// conjunctively, so evaluation order never changes the result.
type ProductFilter struct {
	MinPrice float64
	MaxPrice float64
	Search   string
	Category string
	Tags     []string
}

// ParseProductFilter reads filter criteria from query parameters.
func ParseProductFilter(c *fiber.Ctx) ProductFilter {
	f := ProductFilter{
		MinPrice: 0,
		MaxPrice: defaultMaxPrice,
		Search:   strings.TrimSpace(c.Query("search")),
		Category: c.Query("category"),
	}

	if v := c.Query("min_price"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			f.MinPrice = parsed
		}
	}
	if v := c.Query("max_price"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			f.MaxPrice = parsed
		}
	}

	// Tags may be passed repeated (?tags=a&tags=b) or comma separated.
	for _, raw := range c.Context().QueryArgs().PeekMulti("tags") {
		for _, tag := range strings.Split(string(raw), ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	return f
}

// Apply narrows the given products query. Price bounds are inclusive on both
// ends, search is a case-insensitive substring match on the product name,
// the category criterion matches products mapped to the named category or
// any descendant within the depth cap, and the tag criterion keeps only
// products carrying every requested tag.
func (f ProductFilter) Apply(db *gorm.DB, query *gorm.DB) (*gorm.DB, error) {
	query = query.
		Where("products.price >= ?", f.MinPrice).
		Where("products.price <= ?", f.MaxPrice)

	if f.Search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	if f.Category != "" {
		var seed models.Category
		err := db.Where("slug = ?", f.Category).First(&seed).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unknown category slug means an empty result, not an error.
			return query.Where("1 = 0"), nil
		case err != nil:
			return nil, err
		}

		ids, err := descendantIDs(seed.ID, categoryChildren(db))
		if err != nil {
			return nil, err
		}

		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_id IN ?", ids).
			Distinct("products.*")
	}

	if len(f.Tags) > 0 {
		query = query.
			Joins("JOIN product_tags pt ON pt.product_id = products.id").
			Joins("JOIN tags t ON t.id = pt.tag_id").
			Where("t.slug IN ?", f.Tags).
			Group("products.id").
			Having("COUNT(DISTINCT t.id) = ?", len(f.Tags))
	}

	return query, nil
}

// filteredProducts builds the visible-products query with the filter applied.
func filteredProducts(db *gorm.DB, f ProductFilter) (*gorm.DB, error) {
	query := db.Model(&models.Product{}).Where("products.visible = ?", true)
	return f.Apply(db, query)
}
