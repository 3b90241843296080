package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/services"
)

func TestOTPValid(t *testing.T) {
	issued := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{OTPCode: "123456", OTPExpiresAt: issued.Add(otpTTL)}

	cases := []struct {
		name string
		code string
		at   time.Time
		want bool
	}{
		{"fresh code", "123456", issued.Add(9 * time.Minute), true},
		{"expired code", "123456", issued.Add(11 * time.Minute), false},
		{"one digit off", "123457", issued.Add(time.Minute), false},
		{"empty code", "", issued.Add(time.Minute), false},
		{"at the boundary", "123456", issued.Add(otpTTL), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := otpValid(user, tc.code, tc.at); got != tc.want {
				t.Errorf("otpValid(%q at %s) = %v, want %v", tc.code, tc.at, got, tc.want)
			}
		})
	}
}

func TestOTPValidNoIssuedCode(t *testing.T) {
	user := &models.User{}
	if otpValid(user, "", time.Now()) {
		t.Fatal("empty stored code must never validate")
	}
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()

	// No query expectations are registered: a request with a bad phone
	// number must be rejected before the database is consulted.
	db, _ := newTestDB(t)
	handler := NewAuthHandler(db, &config.Config{JWTSecret: testJWTSecret}, services.NewSMSService(""), services.NewCaptchaService(""))

	app := fiber.New()
	app.Post("/auth/user/otp_check", handler.CheckOTP)
	app.Post("/auth/user/register", handler.Register)
	app.Post("/auth/user/forgot_password", handler.ForgotPassword)
	app.Post("/auth/user/reset_password", handler.ResetPassword)

	return app
}

func TestAuthRejectsInvalidPhone(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
	}{
		{"otp check", "/auth/user/otp_check", `{"mobile_phone":"12345","otp":"111111"}`},
		{"register", "/auth/user/register", `{"mobile_phone":"12345","otp":"111111","password":"secret"}`},
		{"forgot password", "/auth/user/forgot_password", `{"mobile_phone":"12345"}`},
		{"reset password", "/auth/user/reset_password", `{"mobile_phone":"12345","otp":"111111","new_password":"secret"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newAuthApp(t)

			req := httptest.NewRequest("POST", tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != fiber.StatusBadRequest {
				t.Errorf("expected 400 for a malformed phone number, got %d", resp.StatusCode)
			}
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected six digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes never vary")
	}
}
