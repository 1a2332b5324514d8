package entity

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/matzehuels/chordwheel/pkg/relation"
)

// Order is an immutable canonical sequence of entities.
type Order struct {
	entities []Entity
	index    map[string]int
}

// Len returns the number of entities.
func (o Order) Len() int { return len(o.entities) }

// At returns the entity at canonical index i.
func (o Order) At(i int) Entity { return o.entities[i] }

// Index returns the canonical index of label.
func (o Order) Index(label string) (int, bool) {
	i, ok := o.index[label]
	return i, ok
}

// Entities returns a copy of the ordered entities.
func (o Order) Entities() []Entity { return slices.Clone(o.entities) }

// Labels returns the labels in canonical order.
func (o Order) Labels() []string {
	out := make([]string, len(o.entities))
	for i, e := range o.entities {
		out[i] = e.Label
	}
	return out
}

// MarshalJSON encodes the order as an array of entities.
func (o Order) MarshalJSON() ([]byte, error) {
	if o.entities == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o.entities)
}

// Canonicalize orders every label appearing in rels using [DefaultRules].
func Canonicalize(rels []relation.Relationship) Order {
	return Classifier{}.Order(relation.Labels(rels))
}

// CanonicalizeLabels orders labels using [DefaultRules]. Duplicates are
// collapsed.
func CanonicalizeLabels(labels []string) Order {
	return Classifier{}.Order(labels)
}

// Order classifies labels and sorts them canonically. The result depends
// only on the set of distinct labels, never on their input order.
func (c Classifier) Order(labels []string) Order {
	seen := make(map[string]bool, len(labels))
	var containers, others []Entity
	areas := map[byte][]Entity{}
	procs := map[byte][]Entity{}
	var letters []byte

	addLetter := func(b byte) {
		if !slices.Contains(letters, b) {
			letters = append(letters, b)
		}
	}

	for _, l := range labels {
		if seen[l] {
			continue
		}
		seen[l] = true
		e := Describe(l, c.Classify(l))
		switch {
		case e.Category == Container:
			containers = append(containers, e)
		case e.Category == ProcessArea && e.Letter != 0:
			areas[e.Letter] = append(areas[e.Letter], e)
			addLetter(e.Letter)
		case e.Category == Process && e.Letter != 0:
			procs[e.Letter] = append(procs[e.Letter], e)
			addLetter(e.Letter)
		default:
			others = append(others, e)
		}
	}

	slices.SortFunc(containers, func(a, b Entity) int {
		if c := compareNumeric(a.Number, b.Number); c != 0 {
			return c
		}
		return strings.Compare(a.Label, b.Label)
	})
	slices.Sort(letters)
	slices.SortFunc(others, func(a, b Entity) int { return strings.Compare(a.Label, b.Label) })

	out := make([]Entity, 0, len(seen))
	out = append(out, containers...)
	for _, l := range letters {
		pa := areas[l]
		slices.SortFunc(pa, func(a, b Entity) int { return strings.Compare(a.Label, b.Label) })
		out = append(out, pa...)

		ps := procs[l]
		slices.SortFunc(ps, func(a, b Entity) int {
			if c := compareNumeric(a.Number, b.Number); c != 0 {
				return c
			}
			if c := strings.Compare(a.Code, b.Code); c != 0 {
				return c
			}
			return strings.Compare(a.Label, b.Label)
		})
		out = append(out, ps...)
	}
	out = append(out, others...)

	idx := make(map[string]int, len(out))
	for i := range out {
		out[i].Index = i
		idx[out[i].Label] = i
	}
	return Order{entities: out, index: idx}
}
