// Package auth implements owner sessions: bcrypt password hashes checked on the
// server and short-lived signed tokens presented on every owner request.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted for an owner account.
const MinPasswordLength = 6

// ErrWrongCredentials is returned when a username/password pair does not match.
var ErrWrongCredentials = errors.New("auth: wrong credentials")

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares password with a stored bcrypt hash.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrWrongCredentials
	}
	return nil
}
