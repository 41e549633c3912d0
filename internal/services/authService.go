package services

import (
	"crypto/rand"
	"math/big"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a JWT token with user ID and role
func GenerateJWT(userID string, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 4).Unix(), // Token expires in 4 hours
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	// Read at call time so a secret loaded from .env in main is seen.
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword produces a throwaway credential for accounts created
// implicitly during profile registration. The fixed suffix keeps it
// inside the registration policy: at least 8 characters with upper case,
// lower case and a digit or symbol.
func GeneratePassword() string {
	b := make([]byte, 12)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
		if err != nil {
			// crypto/rand should not fail; fall back to a static char
			b[i] = 'x'
			continue
		}
		b[i] = passwordCharset[n.Int64()]
	}
	return string(b) + "A1!a"
}
