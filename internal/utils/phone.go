package utils

import (
	"errors"

	"github.com/nyaruka/phonenumbers"
)

var ErrInvalidPhone = errors.New("phone number is not valid")

// ValidatePhone checks that the number is a valid international phone number
// in E.164 form (leading +).
func ValidatePhone(number string) error {
	parsed, err := phonenumbers.Parse(number, "")
	if err != nil {
		return ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return ErrInvalidPhone
	}
	return nil
}
