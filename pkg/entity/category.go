package entity

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Category classifies an entity label by its code prefix.
type Category int

const (
	// Other is any label that matches no other rule. It is the zero value so
	// classification is total.
	Other Category = iota
	// Container labels start with a number: "2 Finance".
	Container
	// ProcessArea labels start with a letter and a period: "A. Policy".
	ProcessArea
	// Process labels start with a letter and digits: "A1 Intake".
	Process
)

var categoryNames = map[Category]string{
	Other:       "other",
	Container:   "container",
	ProcessArea: "process_area",
	Process:     "process",
}

// String returns the snake_case name of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	for k, v := range categoryNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown category %q", b)
}

// Rule pairs a label predicate with the category it assigns.
type Rule struct {
	Category Category
	Match    func(label string) bool
}

var (
	processAreaRe = regexp.MustCompile(`^[A-Z]\.`)
	processRe     = regexp.MustCompile(`^[A-Z][0-9]+`)
)

// DefaultRules is the built-in precedence list. Order matters: the first
// matching rule wins, and labels matching none fall into [Other].
var DefaultRules = []Rule{
	{Category: Container, Match: isContainer},
	{Category: ProcessArea, Match: processAreaRe.MatchString},
	{Category: Process, Match: processRe.MatchString},
}

// isContainer reports whether label starts with ASCII digits followed by
// whitespace or the end of the string.
func isContainer(label string) bool {
	n := leadingDigits(label)
	if n == 0 {
		return false
	}
	if n == len(label) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(label[n:])
	return unicode.IsSpace(r)
}

func leadingDigits(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func isUpperASCII(b byte) bool { return b >= 'A' && b <= 'Z' }

// Classifier assigns categories by evaluating an ordered rule list.
// The zero value uses [DefaultRules].
type Classifier struct {
	Rules []Rule
}

// NewClassifier returns a classifier evaluating rules in order.
// With no rules it falls back to [DefaultRules].
func NewClassifier(rules ...Rule) Classifier {
	return Classifier{Rules: rules}
}

func (c Classifier) rules() []Rule {
	if len(c.Rules) == 0 {
		return DefaultRules
	}
	return c.Rules
}

// Classify returns the category of the first matching rule, or [Other].
func (c Classifier) Classify(label string) Category {
	for _, r := range c.rules() {
		if r.Match != nil && r.Match(label) {
			return r.Category
		}
	}
	return Other
}

// Classify classifies label with [DefaultRules].
func Classify(label string) Category {
	return Classifier{}.Classify(label)
}
