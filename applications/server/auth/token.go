package auth

import (
	"crypto/subtle"

	"github.com/donmikel/logbay/applications/server/interfaces"
)

type staticToken struct {
	token []byte
}

// NewStaticToken builds an authorizer that accepts exactly one shared
// token. Comparison is constant time.
func NewStaticToken(token string) interfaces.Authorizer {
	return &staticToken{token: []byte(token)}
}

func (a *staticToken) Authorize(token string) bool {
	if len(a.token) == 0 {
		return false
	}

	return subtle.ConstantTimeCompare(a.token, []byte(token)) == 1
}
