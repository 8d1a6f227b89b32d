package auth

import (
	"unicode"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword will generate a password hash. bcrypt salts every digest,
// so hashing the same password twice yields different values.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if goerrors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// MinPasswordLength is the minimum accepted password length.
var MinPasswordLength = 8

// ValidatePasswordStrength enforces the password policy: minimum length,
// one uppercase letter, one digit, and one symbol. It runs before any
// hashing work so malformed input never pays the bcrypt cost.
func ValidatePasswordStrength(value any) error {
	password, _ := value.(string)
	if password == "" {
		return ErrNoEmptyString
	}

	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if len(password) < MinPasswordLength || !upper || !digit || !symbol {
		return goerrors.New(
			"password must be at least 8 characters and include an uppercase letter, a digit, and a symbol",
			goerrors.CategoryValidation,
		).WithTextCode(TextCodeWeakPassword).WithCode(goerrors.CodeBadRequest)
	}

	return nil
}
