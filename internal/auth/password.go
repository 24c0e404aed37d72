package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// Stored passwords are "<hex hash>.<hex salt>".
func hashPassword(password string) (string, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash, err := scrypt.Key([]byte(password), salt, 32768, 8, 1, 32)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s.%s", hex.EncodeToString(hash), hex.EncodeToString(salt)), nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	hashHex, saltHex, ok := strings.Cut(storedPassword, ".")
	if !ok {
		return false, fmt.Errorf("wrong password/salt format")
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("unable to verify user password")
	}
	stored, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, fmt.Errorf("unable to verify user password")
	}

	hash, err := scrypt.Key([]byte(suppliedPassword), salt, 32768, 8, 1, 32)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(hash, stored) == 1, nil
}
