package principal

import (
	"encoding/json"
	"fmt"
	"strings"
)

// The envelope wraps the principal JSON inside an outer object whose single
// field names the principal kind, so storage shared with other principal
// types can discriminate by tag without parsing the payload:
//
//	{"Google":"{\"subClaim\":\"...\",...}"}
const (
	envelopeField  = "Google"
	envelopePrefix = `{"` + envelopeField + `":`
	envelopeSuffix = `}`
)

// Serializer round-trips a Principal through the tagged envelope string
// persisted between requests. Safe for concurrent use.
type Serializer struct{}

// NewSerializer creates a Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Serialize encodes the principal as a tagged envelope string.
func (s *Serializer) Serialize(p *Principal) (string, error) {
	if p == nil || p.SubjectClaim == "" {
		return "", fmt.Errorf("%w: cannot serialize principal without subject", ErrInvalidClaims)
	}

	inner, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("[Serialize] failed to encode principal: %w", err)
	}

	envelope, err := json.Marshal(map[string]string{envelopeField: string(inner)})
	if err != nil {
		return "", fmt.Errorf("[Serialize] failed to encode envelope: %w", err)
	}

	return string(envelope), nil
}

// Recognizes reports whether the value carries this package's envelope tag.
// It is a structural pre-check only: a true result does not guarantee the
// payload parses. Runs in constant time regardless of payload size and never
// panics on foreign input.
func (s *Serializer) Recognizes(value string) bool {
	return strings.HasPrefix(value, envelopePrefix) && strings.HasSuffix(value, envelopeSuffix)
}

// Deserialize decodes a tagged envelope string back into a Principal. Foreign
// or malformed envelopes, wrong inner field types and a missing subject all
// fail with ErrDeserialization: a partially populated principal is never
// returned.
func (s *Serializer) Deserialize(value string) (*Principal, error) {
	if !s.Recognizes(value) {
		return nil, fmt.Errorf("%w: not a Google principal envelope", ErrDeserialization)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &envelope); err != nil {
		return nil, fmt.Errorf("%w: invalid envelope JSON: %v", ErrDeserialization, err)
	}

	rawInner, ok := envelope[envelopeField]
	if !ok {
		return nil, fmt.Errorf("%w: envelope missing %q field", ErrDeserialization, envelopeField)
	}

	var inner string
	if err := json.Unmarshal(rawInner, &inner); err != nil {
		return nil, fmt.Errorf("%w: envelope %q field is not a string", ErrDeserialization, envelopeField)
	}
	if inner == "" {
		return nil, fmt.Errorf("%w: envelope %q field is empty", ErrDeserialization, envelopeField)
	}

	var p Principal
	if err := json.Unmarshal([]byte(inner), &p); err != nil {
		return nil, fmt.Errorf("%w: invalid principal JSON: %v", ErrDeserialization, err)
	}
	if strings.TrimSpace(p.SubjectClaim) == "" {
		return nil, fmt.Errorf("%w: principal missing subject", ErrDeserialization)
	}

	return &p, nil
}
