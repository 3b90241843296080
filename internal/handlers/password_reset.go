package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/utils"
)

type forgotPasswordRequest struct {
	MobilePhone  string `json:"mobile_phone"`
	CaptchaToken string `json:"captcha_token"`
}

// ForgotPassword issues a reset OTP for a registered phone number. The
// response does not reveal whether the number is registered.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
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
	err := h.db.Where("mobile_phone = ? AND is_verified = ?", req.MobilePhone, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"status": "success"})
	}
	if err != nil {
		return err
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

	if err := h.sms.SendOTP(user.MobilePhone, code); err != nil {
		log.Printf("[Auth] failed to send reset OTP to %s: %v", user.MobilePhone, err)
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type resetPasswordRequest struct {
	MobilePhone string `json:"mobile_phone"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// ResetPassword replaces the password after OTP verification.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "new_password is required")
	}

	if err := utils.ValidatePhone(req.MobilePhone); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid mobile phone number")
	}

	var user models.User
	if err := h.db.Where("mobile_phone = ? AND is_verified = ?", req.MobilePhone, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
		}
		return err
	}

	if !otpValid(&user, req.OTP, time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.OTPCode = ""
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}
