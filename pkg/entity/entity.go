// Package entity derives the canonical order of chord diagram entities.
//
// Every label that appears in a relationship set becomes an [Entity]. The
// canonicalizer classifies each label with an ordered rule list (see
// [Classifier]) and sorts the result into a deterministic sequence:
//
//  1. Containers ("2 Finance") by their numeric prefix.
//  2. For each leading letter in ascending order: that letter's process areas
//     ("A. Policy"), then its processes ("A1 Intake", "A2 Review") by number.
//  3. Everything else, lexically.
//
// The position of an entity in that sequence is its canonical index. Matrix
// rows, arc order and colors are all keyed by it, so identical input sets
// always render identical pictures regardless of row order in the input.
package entity

import (
	"strings"
	"unicode"
)

// Entity is one labeled arc of the diagram.
type Entity struct {
	Index    int      `json:"index"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	// Code is the token before the first whitespace, or the whole label.
	Code string `json:"code"`
	// Letter is the leading uppercase letter of process and process area
	// labels, zero otherwise.
	Letter byte `json:"-"`
	// Number is the container prefix or the process suffix digits.
	Number string `json:"-"`
}

// Describe derives the code, letter and number fields of label for cat.
// Index is left at zero.
func Describe(label string, cat Category) Entity {
	e := Entity{Label: label, Category: cat, Code: codePrefix(label)}
	switch cat {
	case Container:
		e.Number = label[:leadingDigits(label)]
	case ProcessArea, Process:
		if len(label) > 0 && isUpperASCII(label[0]) {
			e.Letter = label[0]
			e.Number = label[1 : 1+leadingDigits(label[1:])]
		}
	}
	return e
}

func codePrefix(label string) string {
	if i := strings.IndexFunc(label, unicode.IsSpace); i >= 0 {
		return label[:i]
	}
	return label
}

// compareNumeric orders decimal digit strings by value without parsing them,
// so arbitrarily long prefixes never overflow. Empty strings sort as zero.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
