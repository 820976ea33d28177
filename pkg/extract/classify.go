package extract

import "strings"

// Classification is the outcome bucket assigned to fetched page content
// before extraction is attempted.
type Classification string

const (
	// ClassOk means the content looks like a real listing page and may be extracted.
	ClassOk Classification = "ok"

	// ClassInsufficient means the content is absent or below MinContentBytes.
	ClassInsufficient Classification = "insufficient"

	// ClassBlocked means the content matched a block signature.
	ClassBlocked Classification = "blocked"

	// ClassTransientError marks fetch-layer failures. It is assigned by the
	// scheduler, never by Classify.
	ClassTransientError Classification = "transient_error"
)

// Classifier applies the minimum-content threshold and a block-signature
// table to rendered page content.
type Classifier struct {
	signatures []Signature
	markers    []string
}

// NewClassifier compiles the given table. The markers are matched
// case-insensitively against the content.
func NewClassifier(table SignatureTable) *Classifier {
	c := &Classifier{
		signatures: make([]Signature, 0, len(table.Signatures)),
		markers:    make([]string, 0, len(table.Signatures)),
	}
	for _, sig := range table.Signatures {
		if sig.Marker == "" {
			continue
		}
		c.signatures = append(c.signatures, sig)
		c.markers = append(c.markers, strings.ToLower(sig.Marker))
	}
	return c
}

// Classify buckets content as Ok, Insufficient or Blocked. For Blocked it
// also returns the matched signature so callers can react to the challenge
// marker specifically.
func (c *Classifier) Classify(content string) (Classification, *Signature) {
	if len(content) < MinContentBytes {
		return ClassInsufficient, nil
	}

	lowered := strings.ToLower(content)
	for i, marker := range c.markers {
		if strings.Contains(lowered, marker) {
			sig := c.signatures[i]
			return ClassBlocked, &sig
		}
	}

	return ClassOk, nil
}
