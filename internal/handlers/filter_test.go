package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/models"
)

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	return gdb, mock
}

// dryRunSQL renders the query without touching the database.
func dryRunSQL(t *testing.T, query *gorm.DB) (string, []interface{}) {
	t.Helper()

	var products []models.Product
	tx := query.Session(&gorm.Session{DryRun: true}).Find(&products)
	if tx.Error != nil {
		t.Fatalf("dry run: %v", tx.Error)
	}
	return tx.Statement.SQL.String(), tx.Statement.Vars
}

func TestFilterDefaults(t *testing.T) {
	db, _ := newTestDB(t)

	query, err := filteredProducts(db, ProductFilter{MinPrice: 0, MaxPrice: defaultMaxPrice})
	if err != nil {
		t.Fatalf("filteredProducts: %v", err)
	}

	sql, vars := dryRunSQL(t, query)
	if !strings.Contains(sql, "products.visible = ") {
		t.Errorf("visibility criterion missing from %q", sql)
	}
	if !strings.Contains(sql, "products.price >= ") || !strings.Contains(sql, "products.price <= ") {
		t.Errorf("price bounds missing from %q", sql)
	}
	if strings.Contains(sql, "LIKE") || strings.Contains(sql, "JOIN") {
		t.Errorf("inactive criteria leaked into %q", sql)
	}

	found := false
	for _, v := range vars {
		if f, ok := v.(float64); ok && f == defaultMaxPrice {
			found = true
		}
	}
	if !found {
		t.Errorf("default max price not bound, vars: %v", vars)
	}
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	db, _ := newTestDB(t)

	query, err := filteredProducts(db, ProductFilter{MaxPrice: defaultMaxPrice, Search: "CoLa"})
	if err != nil {
		t.Fatalf("filteredProducts: %v", err)
	}

	sql, vars := dryRunSQL(t, query)
	if !strings.Contains(sql, "LOWER(products.name) LIKE ") {
		t.Errorf("case-insensitive search missing from %q", sql)
	}

	found := false
	for _, v := range vars {
		if s, ok := v.(string); ok && s == "%cola%" {
			found = true
		}
	}
	if !found {
		t.Errorf("search pattern should be lowercased, vars: %v", vars)
	}
}

func TestFilterTagIntersection(t *testing.T) {
	db, _ := newTestDB(t)

	query, err := filteredProducts(db, ProductFilter{MaxPrice: defaultMaxPrice, Tags: []string{"spicy", "vegan"}})
	if err != nil {
		t.Fatalf("filteredProducts: %v", err)
	}

	sql, vars := dryRunSQL(t, query)
	if !strings.Contains(sql, "JOIN product_tags pt") || !strings.Contains(sql, "JOIN tags t") {
		t.Errorf("tag joins missing from %q", sql)
	}
	if !strings.Contains(sql, "COUNT(DISTINCT t.id) = ") {
		t.Errorf("intersection HAVING missing from %q", sql)
	}

	if last := vars[len(vars)-1]; last != 2 {
		t.Errorf("HAVING should bind the number of requested tags, got %v", last)
	}
}

func TestFilterUnknownCategoryYieldsEmptySet(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM "categories"`).
		WithArgs("no-such-slug", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	query, err := filteredProducts(db, ProductFilter{MaxPrice: defaultMaxPrice, Category: "no-such-slug"})
	if err != nil {
		t.Fatalf("filteredProducts: %v", err)
	}

	sql, _ := dryRunSQL(t, query)
	if !strings.Contains(sql, "1 = 0") {
		t.Errorf("unknown category should produce an empty result set, got %q", sql)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFilterCategorySubtree(t *testing.T) {
	db, mock := newTestDB(t)
	seedID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "categories"`).
		WithArgs("drinks", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(seedID.String(), "drinks"))
	// No children: the walk stops after one empty generation.
	mock.ExpectQuery(`SELECT "id" FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	query, err := filteredProducts(db, ProductFilter{MaxPrice: defaultMaxPrice, Category: "drinks"})
	if err != nil {
		t.Fatalf("filteredProducts: %v", err)
	}

	sql, _ := dryRunSQL(t, query)
	if !strings.Contains(sql, "JOIN product_categories pc") {
		t.Errorf("category join missing from %q", sql)
	}
	if !strings.Contains(sql, "pc.category_id IN ") {
		t.Errorf("subtree membership criterion missing from %q", sql)
	}
	if !strings.Contains(sql, "DISTINCT") {
		t.Errorf("multi-category products must be deduplicated, got %q", sql)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestParseProductFilter(t *testing.T) {
	app := fiber.New()

	var got ProductFilter
	app.Get("/probe", func(c *fiber.Ctx) error {
		got = ParseProductFilter(c)
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name  string
		query string
		check func(t *testing.T, f ProductFilter)
	}{
		{
			name:  "defaults",
			query: "",
			check: func(t *testing.T, f ProductFilter) {
				if f.MinPrice != 0 || f.MaxPrice != defaultMaxPrice {
					t.Errorf("unexpected price defaults: %+v", f)
				}
				if f.Search != "" || f.Category != "" || len(f.Tags) != 0 {
					t.Errorf("expected empty criteria: %+v", f)
				}
			},
		},
		{
			name:  "explicit bounds",
			query: "min_price=100&max_price=250.5",
			check: func(t *testing.T, f ProductFilter) {
				if f.MinPrice != 100 || f.MaxPrice != 250.5 {
					t.Errorf("bounds not parsed: %+v", f)
				}
			},
		},
		{
			name:  "repeated tags",
			query: "tags=spicy&tags=vegan",
			check: func(t *testing.T, f ProductFilter) {
				if len(f.Tags) != 2 || f.Tags[0] != "spicy" || f.Tags[1] != "vegan" {
					t.Errorf("repeated tags not parsed: %v", f.Tags)
				}
			},
		},
		{
			name:  "comma separated tags",
			query: "tags=spicy,vegan",
			check: func(t *testing.T, f ProductFilter) {
				if len(f.Tags) != 2 {
					t.Errorf("comma tags not parsed: %v", f.Tags)
				}
			},
		},
		{
			name:  "unparsable prices fall back",
			query: "min_price=abc&max_price=xyz",
			check: func(t *testing.T, f ProductFilter) {
				if f.MinPrice != 0 || f.MaxPrice != defaultMaxPrice {
					t.Errorf("garbage prices should keep defaults: %+v", f)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/probe?"+tc.query, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			resp.Body.Close()
			tc.check(t, got)
		})
	}
}
