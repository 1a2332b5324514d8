// Package relation defines the relationship triples that feed the chord
// diagram pipeline.
//
// A [Relationship] is a directed, weighted link between two labeled entities.
// Entities are implicit: any label appearing as a source or target is an
// entity. Labels are compared byte for byte.
//
// The pipeline assumes relationships were validated at ingestion time (see
// [Validate] and the pkg/io readers). Downstream stages only tolerate
// structurally degenerate input: zero or negative values, self-loops,
// duplicate pairs and empty sets.
package relation

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/matzehuels/chordwheel/pkg/errors"
)

// Relationship is one weighted flow from Source to Target.
type Relationship struct {
	Source string  `json:"source" yaml:"source"`
	Target string  `json:"target" yaml:"target"`
	Value  float64 `json:"value" yaml:"value"`
}

// IsSelfLoop reports whether the relationship starts and ends at the same entity.
func (r Relationship) IsSelfLoop() bool {
	return r.Source == r.Target
}

// Labels returns the distinct labels of rels in first-seen order.
func Labels(rels []Relationship) []string {
	seen := make(map[string]struct{}, len(rels))
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, r := range rels {
		add(r.Source)
		add(r.Target)
	}
	return out
}

// Validate checks every relationship for non-empty labels and a finite value.
// The returned error names the 1-based position of the first offending entry.
func Validate(rels []Relationship) error {
	for i, r := range rels {
		if err := errors.ValidateLabel(r.Source); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "relationship %d: source", i+1)
		}
		if err := errors.ValidateLabel(r.Target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "relationship %d: target", i+1)
		}
		if err := errors.ValidateValue(r.Value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "relationship %d: value", i+1)
		}
	}
	return nil
}

// Hash returns a content hash of rels that is sensitive to order, since
// duplicate pairs resolve last-write-wins.
func Hash(rels []Relationship) string {
	h := sha256.New()
	var buf []byte
	for _, r := range rels {
		buf = buf[:0]
		buf = strconv.AppendQuote(buf, r.Source)
		buf = append(buf, 0)
		buf = strconv.AppendQuote(buf, r.Target)
		buf = append(buf, 0)
		buf = strconv.AppendFloat(buf, r.Value, 'g', -1, 64)
		buf = append(buf, '\n')
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}
