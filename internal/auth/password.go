package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// MakeHash returns the sha256 hex digest of a password, the scheme used for
// every stored credential including the bootstrap admin. Salting and KDFs are
// out of scope.
func MakeHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// CheckHash reports whether the password matches the stored digest.
func CheckHash(password, hashed string) bool {
	return subtle.ConstantTimeCompare([]byte(MakeHash(password)), []byte(hashed)) == 1
}
