package ports

// PasswordHasher is the one-way credential transform. Hash salts internally,
// so two calls on the same plaintext yield different digests. Verify reports
// a mismatch as false, never as an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer mints a signed, time-bounded credential for an authenticated
// identity. The issuer performs no lookups of its own; callers must have
// already verified the password.
type TokenIssuer interface {
	Issue(email string, role string) (string, error)
}
