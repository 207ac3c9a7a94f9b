package utils

import "golang.org/x/crypto/bcrypt"

func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}

// EnsurePasswordHash returns s unchanged when it already is a bcrypt hash ($2a$, $2b$, $2y$),
// otherwise the bcrypt hash of s.
func EnsurePasswordHash(s string) (string, error) {
	if _, err := bcrypt.Cost([]byte(s)); err == nil {
		return s, nil
	}
	hashed, err := HashPassword(s)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
