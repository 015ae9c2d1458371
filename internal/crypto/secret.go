package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// GeneratedSecretLength is the length, in hex characters, of passwords
// generated for accounts created without one.
const GeneratedSecretLength = 16

var ErrOddSecretLength = errors.New("secret length must be a positive even number")

// RandomHex returns a cryptographically random string of length hex
// characters.
func RandomHex(length int) (string, error) {
	if length <= 0 || length%2 != 0 {
		return "", ErrOddSecretLength
	}

	buf := make([]byte, length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// GeneratePassword returns a fresh 16-hex-character password.
func GeneratePassword() (string, error) {
	return RandomHex(GeneratedSecretLength)
}
