package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the cost the rest of the system was provisioned with.
// Rehashing existing accounts would be needed to raise it.
const bcryptCost = 12

// BcryptHasher implements password hashing with bcrypt.
type BcryptHasher struct{}

func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{}
}

func (BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
