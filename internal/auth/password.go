// Package auth holds the credential primitives: bcrypt password hashing,
// a password strength meter and signed session tokens.
package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps hashing around a few hundred milliseconds on current hardware.
const DefaultBcryptCost = 12

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

type PasswordHasher struct {
	cost  int
	dummy string
}

// NewPasswordHasher returns a hasher with the given bcrypt cost; out-of-range
// values fall back to DefaultBcryptCost. It panics if the timing hash used by
// VerifyDummy cannot be generated.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	h := &PasswordHasher{cost: cost}
	dummy, err := h.Hash("dummy-password-for-timing")
	if err != nil {
		panic(fmt.Sprintf("auth: generate dummy hash: %v", err))
	}
	h.dummy = dummy
	return h
}

// Hash returns a salted bcrypt hash that embeds its own salt and cost.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyDummy burns one comparison against a throwaway hash so that a lookup
// for an unknown username takes as long as a real password check.
func (h *PasswordHasher) VerifyDummy(password string) {
	_ = h.Verify(password, h.dummy)
}

type Strength int

const (
	StrengthWeak Strength = iota
	StrengthMedium
	StrengthStrong
	StrengthVeryStrong
)

func (s Strength) String() string {
	switch s {
	case StrengthMedium:
		return "medium"
	case StrengthStrong:
		return "strong"
	case StrengthVeryStrong:
		return "very strong"
	default:
		return "weak"
	}
}

// PasswordStrength scores one point each for length >= 8, length >= 12,
// an upper-case letter, a lower-case letter, a digit and a symbol.
func PasswordStrength(password string) Strength {
	score := 0
	n := len([]rune(password))
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	for _, ok := range []bool{upper, lower, digit, symbol} {
		if ok {
			score++
		}
	}

	switch {
	case score >= 6:
		return StrengthVeryStrong
	case score >= 4:
		return StrengthStrong
	case score >= 2:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}
