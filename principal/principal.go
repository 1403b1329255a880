package principal

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/go-google-auth/internal/utils"
	"github.com/jrsteele09/go-google-auth/token"
)

// Principal is the canonical representation of an authenticated Google
// identity. Identity is keyed solely by the sub claim: email and name are
// informational, may be absent, and never participate in equality.
//
// The JSON tags match the stored representation produced by earlier
// deployments, so serialized principals keep round-tripping.
type Principal struct {
	SubjectClaim string  `json:"subClaim"`
	EmailClaim   *string `json:"emailClaim,omitempty"`
	NameClaim    *string `json:"nameClaim,omitempty"`
}

// FromClaims maps decoded or verified claims to a Principal. The sub claim is
// the only one treated as load-bearing: it must be non-empty and is carried
// over unmodified. Email and name are copied opportunistically and left
// absent, not defaulted, when Google did not assert them.
func FromClaims(claims *token.Claims) (*Principal, error) {
	if claims == nil || strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidClaims)
	}

	p := &Principal{SubjectClaim: claims.Subject}
	if claims.Email != "" {
		p.EmailClaim = utils.Ptr(claims.Email)
	}
	if claims.Name != "" {
		p.NameClaim = utils.Ptr(claims.Name)
	}

	return p, nil
}

// Name returns the stable identity key.
func (p *Principal) Name() string {
	return p.SubjectClaim
}

// Equal reports whether two principals identify the same Google account.
func (p *Principal) Equal(other *Principal) bool {
	if other == nil {
		return false
	}
	return p.SubjectClaim == other.SubjectClaim
}

// Clone returns a deep copy of the principal.
func (p *Principal) Clone() *Principal {
	copied := &Principal{SubjectClaim: p.SubjectClaim}
	if p.EmailClaim != nil {
		copied.EmailClaim = utils.Ptr(*p.EmailClaim)
	}
	if p.NameClaim != nil {
		copied.NameClaim = utils.Ptr(*p.NameClaim)
	}
	return copied
}

func (p *Principal) String() string {
	return fmt.Sprintf("GoogleIdPrincipal{%s}", p.SubjectClaim)
}
