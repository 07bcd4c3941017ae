package service

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash stored for an account.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether raw matches the stored hash. Any mismatch or
// malformed hash yields false.
func VerifyPassword(raw, storedHash string) bool {
	if raw == "" || storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)) == nil
}
