// Package utils holds credential hashing and the input validation rules for
// registration: email shape, supported phone formats, password strength and
// the account number derivation.
package utils

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPhoneNumber is returned when a phone number is not in one of the
// supported Nigerian mobile formats.
var ErrInvalidPhoneNumber = errors.New("phone number must match a supported format, e.g. 08012345678")

// Supported mobile formats: local 0-prefixed or international +234-prefixed,
// with a known carrier prefix.
var phonePattern = regexp.MustCompile(`^(?:\+234|0)(80|81|70|71|90|91)[0-9]{8}$`)

// HashPassword hashes a plain password using bcrypt with cost 14.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IsEmail returns true if the string is a valid email address.
func IsEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// IsValidPhoneNumber reports whether the phone number is in a supported
// format.
func IsValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

// IsStrongPassword reports whether the password is at least 8 characters and
// contains an uppercase letter, a lowercase letter and a digit.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// DeriveAccountNumber turns a supported phone number into the external
// 10-digit account number. International numbers are normalised to the local
// 0-prefixed form first, then the leading zero is stripped.
func DeriveAccountNumber(phone string) (string, error) {
	if !IsValidPhoneNumber(phone) {
		return "", ErrInvalidPhoneNumber
	}
	local := phone
	if strings.HasPrefix(phone, "+234") {
		local = "0" + strings.TrimPrefix(phone, "+234")
	}
	return local[1:], nil
}
