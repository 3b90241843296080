package handlers

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/config"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/services"
	"github.com/example/thaihana/internal/utils"
)

const otpTTL = 10 * time.Minute

// AuthHandler implements phone based registration and login.
type AuthHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	sms     *services.SMSService
	captcha *services.CaptchaService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, sms *services.SMSService, captcha *services.CaptchaService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, sms: sms, captcha: captcha}
}

type preregisterRequest struct {
	MobilePhone  string `json:"mobile_phone"`
	CaptchaToken string `json:"captcha_token"`
}

// Preregister verifies the captcha, stores a fresh OTP for the phone
// number and sends it over SMS. The user row is created unverified when
// it does not exist yet.
func (h *AuthHandler) Preregister(c *fiber.Ctx) error {
	var req preregisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidatePhone(req.MobilePhone); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mobile phone number")
	}

	if !h.captcha.Verify(c.IP(), req.CaptchaToken) {
		return fiber.NewError(fiber.StatusBadRequest, "captcha verification failed")
	}

	var user models.User
	err := h.db.Where("mobile_phone = ?", req.MobilePhone).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{MobilePhone: req.MobilePhone}
	} else if err != nil {
		return err
	} else if user.IsVerified {
		return fiber.NewError(fiber.StatusBadRequest, "user already registered")
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	user.OTPCode = code
	user.OTPExpiresAt = time.Now().Add(otpTTL)
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if err := h.sms.SendOTP(req.MobilePhone, code); err != nil {
		log.Printf("[Auth] failed to send OTP to %s: %v", req.MobilePhone, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type otpCheckRequest struct {
	MobilePhone string `json:"mobile_phone"`
	OTP         string `json:"otp"`
}

// CheckOTP reports whether the provided code matches the one issued for
// the phone number and is still fresh.
func (h *AuthHandler) CheckOTP(c *fiber.Ctx) error {
	var req otpCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidatePhone(req.MobilePhone); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mobile phone number")
	}

	var user models.User
	if err := h.db.Where("mobile_phone = ?", req.MobilePhone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(fiber.Map{"valid": false})
		}
		return err
	}

	return c.JSON(fiber.Map{"valid": otpValid(&user, req.OTP, time.Now())})
}

type registerRequest struct {
	MobilePhone string `json:"mobile_phone"`
	OTP         string `json:"otp"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// Register completes registration: the OTP issued during preregistration
// must still be valid. On success the user becomes verified and receives
// a token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "password is required")
	}

	if err := utils.ValidatePhone(req.MobilePhone); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mobile phone number")
	}

	var user models.User
	if err := h.db.Where("mobile_phone = ?", req.MobilePhone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "preregistration required")
		}
		return err
	}

	if user.IsVerified {
		return fiber.NewError(fiber.StatusBadRequest, "user already registered")
	}
	if !otpValid(&user, req.OTP, time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.IsVerified = true
	user.OTPCode = ""
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.MobilePhone, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": token, "token_type": "bearer"})
}

type loginRequest struct {
	MobilePhone string `json:"mobile_phone"`
	Password    string `json:"password"`
}

// Login exchanges phone and password for a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.Where("mobile_phone = ?", req.MobilePhone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "incorrect phone number or password")
		}
		return err
	}

	if !user.IsVerified || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "incorrect phone number or password")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.MobilePhone, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": token, "token_type": "bearer"})
}

// otpValid checks the code against the stored one and its expiry.
func otpValid(user *models.User, code string, now time.Time) bool {
	if user.OTPCode == "" || code == "" {
		return false
	}
	if now.After(user.OTPExpiresAt) {
		return false
	}
	return user.OTPCode == code
}

// generateOTP returns a random six digit verification code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
