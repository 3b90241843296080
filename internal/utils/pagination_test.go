package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func paginationProbe(ceiling int) (*fiber.App, *Pagination, *error) {
	app := fiber.New()
	var got Pagination
	var gotErr error
	app.Get("/probe", func(c *fiber.Ctx) error {
		got, gotErr = ParsePagination(c, ceiling)
		if gotErr != nil {
			return gotErr
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app, &got, &gotErr
}

func TestParsePaginationDefaults(t *testing.T) {
	app, got, _ := paginationProbe(100)

	resp, err := app.Test(httptest.NewRequest("GET", "/probe", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if got.Offset != 0 || got.Limit != 20 {
		t.Fatalf("unexpected defaults: %+v", *got)
	}
}

func TestParsePaginationExplicit(t *testing.T) {
	app, got, _ := paginationProbe(100)

	resp, err := app.Test(httptest.NewRequest("GET", "/probe?offset=40&limit=10", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if got.Offset != 40 || got.Limit != 10 {
		t.Fatalf("unexpected values: %+v", *got)
	}
}

func TestParsePaginationCeilingForbidden(t *testing.T) {
	app, _, _ := paginationProbe(50)

	resp, err := app.Test(httptest.NewRequest("GET", "/probe?limit=51", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("limit above ceiling should be forbidden, got %d", resp.StatusCode)
	}
}

func TestParsePaginationNegativeValues(t *testing.T) {
	app, got, _ := paginationProbe(100)

	resp, err := app.Test(httptest.NewRequest("GET", "/probe?offset=-5&limit=-1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()

	if got.Offset != 0 || got.Limit != 20 {
		t.Fatalf("negative params should fall back to defaults: %+v", *got)
	}
}
