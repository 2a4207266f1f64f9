// Package pin hashes and validates 4-digit staff PINs.
package pin

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 12

var (
	ErrInvalidFormat = errors.New("pin must be exactly 4 digits")
	ErrWeakPin       = errors.New("pin is too easy to guess")
)

// weakPins are low-entropy values rejected at creation and change time,
// independent of the rate limiter.
var weakPins = map[string]struct{}{
	"0000": {}, "1111": {}, "2222": {}, "3333": {}, "4444": {},
	"5555": {}, "6666": {}, "7777": {}, "8888": {}, "9999": {},
	"1234": {}, "4321": {}, "0123": {}, "3210": {},
}

func isFourDigits(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Hash produces a salted bcrypt hash of a well-formed PIN.
func Hash(pin string) ([]byte, error) {
	const op = "pin.Hash"

	if !isFourDigits(pin) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidFormat)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), hashCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return hash, nil
}

// Verify reports whether pin matches hash. It never returns an error:
// malformed input and bcrypt failures both read as a mismatch, so an
// infrastructure fault cannot be mistaken for a valid PIN.
func Verify(pin string, hash []byte) bool {
	if pin == "" || len(hash) == 0 {
		return false
	}
	if !isFourDigits(pin) {
		return false
	}

	return bcrypt.CompareHashAndPassword(hash, []byte(pin)) == nil
}

// Validate checks format and rejects known weak patterns (repeated or
// sequential digits).
func Validate(pin string) error {
	const op = "pin.Validate"

	if !isFourDigits(pin) {
		return fmt.Errorf("%s: %w", op, ErrInvalidFormat)
	}

	if _, weak := weakPins[pin]; weak {
		return fmt.Errorf("%s: %w", op, ErrWeakPin)
	}

	return nil
}
