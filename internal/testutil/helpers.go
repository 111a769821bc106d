package testutil

import (
	"testing"

	"project_tracker/internal/model"
	"project_tracker/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// FastHasher returns a bcrypt hasher with the minimum cost, for tests only.
func FastHasher() *utils.BcryptHasher {
	return &utils.BcryptHasher{Cost: bcrypt.MinCost}
}

// SeedUser stores a user whose password is the given plain text.
func SeedUser(t *testing.T, store *MemStore, name, email, password, role string) model.User {
	t.Helper()
	hash, err := FastHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return store.AddUser(model.User{Name: name, Email: email, PasswordHash: hash, Role: role})
}
