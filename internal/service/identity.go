package service

import (
	"errors"

	"github.com/iliyamo/formation-enrollment/internal/utils"
)

// NewJWTVerifier returns the production CredentialVerifier: it validates
// HS256 access tokens signed with the given secret and translates the
// token-level failures into the transaction's error kinds.
func NewJWTVerifier(secret string) CredentialVerifier {
	return VerifierFunc(func(raw string) (uint64, error) {
		uid, err := utils.VerifyAccessToken(secret, raw)
		if err != nil {
			if errors.Is(err, utils.ErrNoSubject) {
				return 0, ErrIdentityIncomplete
			}
			return 0, ErrInvalidCredential
		}
		return uid, nil
	})
}
