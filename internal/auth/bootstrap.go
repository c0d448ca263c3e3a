package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapAdmin is the configuration-provisioned platform administrator.
// It is an alternate identity-issuance path, separate from per-user login:
// the credential never touches the document store, and the password is
// hashed at startup so no plaintext comparison happens per request.
type BootstrapAdmin struct {
	username     string
	passwordHash []byte
}

func NewBootstrapAdmin(username, password string) (*BootstrapAdmin, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("bootstrap admin credentials are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash bootstrap admin password: %w", err)
	}
	return &BootstrapAdmin{username: username, passwordHash: hash}, nil
}

// Username reports the provisioned admin login name.
func (a *BootstrapAdmin) Username() string {
	return a.username
}

// Authenticate checks the credential pair.
func (a *BootstrapAdmin) Authenticate(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 {
		_ = bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
}
