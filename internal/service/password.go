package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("assist-dummy-password"), bcrypt.DefaultCost)

func hashPassword(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// passwordMatches returns an error only for a malformed hash.
func passwordMatches(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
