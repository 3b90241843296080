package services

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// CaptchaService verifies reCAPTCHA tokens. Any transport or decode failure
// counts as a failed verification.
type CaptchaService struct {
	secret    string
	verifyURL string
	client    *http.Client
}

// NewCaptchaService creates a new CaptchaService.
func NewCaptchaService(secret string) *CaptchaService {
	return &CaptchaService{
		secret:    secret,
		verifyURL: recaptchaVerifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type captchaResponse struct {
	Success bool `json:"success"`
}

// Verify checks the captcha token against Google for the given client IP.
func (s *CaptchaService) Verify(remoteIP, token string) bool {
	if s.secret == "" {
		log.Println("[Captcha] secret key not configured, skipping verification")
		return true
	}

	params := url.Values{}
	params.Set("secret", s.secret)
	params.Set("response", token)
	params.Set("remoteip", remoteIP)

	resp, err := s.client.PostForm(s.verifyURL, params)
	if err != nil {
		log.Printf("[Captcha] verification request failed: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Captcha] unexpected status: %d", resp.StatusCode)
		return false
	}

	var result captchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("[Captcha] decode failed: %v", err)
		return false
	}

	return result.Success
}
