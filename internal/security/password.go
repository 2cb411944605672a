package security

import "golang.org/x/crypto/bcrypt"

// MinPasswordCost is the lowest bcrypt cost accepted for stored credentials.
const MinPasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts. The limit is in bytes, not characters.
const MaxPasswordBytes = 72

// HashPassword hashes a plain text password with bcrypt at the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < MinPasswordCost {
		cost = MinPasswordCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plain text password.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
