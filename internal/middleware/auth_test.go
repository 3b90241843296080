package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/utils"
)

const testSecret = "test-secret"

func newAuthApp(t *testing.T, adminOnly bool) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	handlers := []fiber.Handler{AuthMiddleware(db, cfg)}
	if adminOnly {
		handlers = append(handlers, RequireAdmin())
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user, ok := GetCurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "user not loaded")
		}
		return c.JSON(fiber.Map{"phone": user.MobilePhone})
	})
	app.Get("/secure", handlers...)

	return app, mock
}

func userRow(phone string, superuser bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "mobile_phone", "is_superuser", "is_verified"}).
		AddRow(uuid.New().String(), phone, superuser, true)
}

func TestAuthMissingHeader(t *testing.T) {
	app, _ := newAuthApp(t, false)

	resp, err := app.Test(httptest.NewRequest("GET", "/secure", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthMalformedToken(t *testing.T) {
	app, _ := newAuthApp(t, false)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthExpiredToken(t *testing.T) {
	app, _ := newAuthApp(t, false)

	token, err := utils.GenerateToken(testSecret, "+77001234567", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAuthValidTokenLoadsUser(t *testing.T) {
	app, mock := newAuthApp(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WithArgs("+77001234567", 1).
		WillReturnRows(userRow("+77001234567", false))

	token, err := utils.GenerateToken(testSecret, "+77001234567", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAuthUnknownUserRejected(t *testing.T) {
	app, mock := newAuthApp(t, false)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	token, err := utils.GenerateToken(testSecret, "+77009999999", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	app, mock := newAuthApp(t, true)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow("+77001234567", false))

	token, err := utils.GenerateToken(testSecret, "+77001234567", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRequireAdminAllowsSuperuser(t *testing.T) {
	app, mock := newAuthApp(t, true)

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).
		WillReturnRows(userRow("+77001234567", true))

	token, err := utils.GenerateToken(testSecret, "+77001234567", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
