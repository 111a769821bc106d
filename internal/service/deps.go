package service

// PasswordHasher hashes and verifies user passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

// TokenIssuer issues authentication tokens for persisted users
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// StructValidator validates request structs against their binding tags.
// gin's binding.Validator satisfies it.
type StructValidator interface {
	ValidateStruct(obj any) error
}
