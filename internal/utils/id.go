package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// Token sizes in random bytes.
const (
	SessionIDBytes = 16
	ObjectKeyBytes = 16
	SecretBytes    = 32
)

// GenerateSecureToken returns length random bytes, base64url encoded without
// padding.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ObjectKey builds an unguessable storage key under prefix, e.g.
// "resumes/<id>/" + token + ".pdf".
func ObjectKey(prefix, ext string) (string, error) {
	name, err := GenerateSecureToken(ObjectKeyBytes)
	if err != nil {
		return "", err
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name + ext, nil
}
