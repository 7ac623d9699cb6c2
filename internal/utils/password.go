package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit. Longer passwords must be
// rejected before hashing; bcrypt silently truncates otherwise.
const MaxPasswordBytes = 72

// HashPassword hashes a plaintext password with bcrypt's default cost.
// The salt is generated per call and embedded in the output.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordTooLong reports whether the UTF-8 encoding exceeds bcrypt's limit.
func PasswordTooLong(password string) bool {
	return len([]byte(password)) > MaxPasswordBytes
}
