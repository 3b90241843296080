package services

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const mobizonSendURL = "https://api.mobizon.kz/service/message/sendsmsmessage"

// SMSService delivers verification codes through the Mobizon gateway.
type SMSService struct {
	apiKey  string
	sendURL string
	client  *http.Client
}

// NewSMSService creates a new SMSService.
func NewSMSService(apiKey string) *SMSService {
	return &SMSService{
		apiKey:  apiKey,
		sendURL: mobizonSendURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SendOTP sends a verification code to the recipient. Delivery is best
// effort: the OTP stays valid whether or not the SMS went out.
func (s *SMSService) SendOTP(mobilePhone, otp string) error {
	if s.apiKey == "" {
		log.Println("[SMS] Mobizon API key not configured")
		return nil
	}

	params := url.Values{}
	params.Set("recipient", strings.TrimPrefix(mobilePhone, "+"))
	params.Set("text", fmt.Sprintf("Ваш код верификации для thaihana.kz: %s", otp))
	params.Set("apiKey", s.apiKey)

	resp, err := s.client.Get(s.sendURL + "?" + params.Encode())
	if err != nil {
		log.Printf("[SMS] failed to send OTP: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[SMS] unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("mobizon returned status %d", resp.StatusCode)
	}

	return nil
}
