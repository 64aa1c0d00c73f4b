package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"

	"bloghub/internal/models"
)

// EncodeUID encodes a user id for inclusion in reset links.
func EncodeUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

// DecodeUID reverses EncodeUID.
func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, models.NewValidationError("Token is not valid, please request a new one")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 32)
	if err != nil {
		return 0, models.NewValidationError("Token is not valid, please request a new one")
	}
	return uint(id), nil
}

// GenerateOpaqueKey returns a 40-character hex key for opaque auth tokens.
func GenerateOpaqueKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
