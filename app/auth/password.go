package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Passwords hashes and compares user passwords with bcrypt.
type Passwords struct {
	cost  int
	dummy []byte
}

// NewPasswords returns a hasher using the given bcrypt cost.
func NewPasswords(cost int) (*Passwords, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	// Compared against for unknown users so a login miss costs the same as a
	// wrong password.
	dummy, err := bcrypt.GenerateFromPassword([]byte("quill-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Passwords{cost: cost, dummy: dummy}, nil
}

// Hash returns the bcrypt hash of plain.
func (p *Passwords) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), p.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether plain matches hash.
func (p *Passwords) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// CompareDummy burns the same work as Compare and always fails.
func (p *Passwords) CompareDummy(plain string) bool {
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plain))
	return false
}
