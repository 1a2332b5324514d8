package io

import (
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chordwheel/pkg/errors"
	"github.com/matzehuels/chordwheel/pkg/relation"
)

// Supported file extensions for [Import].
const (
	ExtCSV  = ".csv"
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
)

// ReadCSV decodes "source,target,value" lines from r.
//
// ReadCSV returns an error if a non-blank line does not have exactly three
// fields, if a label is empty or contains control characters, or if the
// value is not a finite number. The error names the 1-based line.
// ReadCSV does not close r.
func ReadCSV(r io.Reader) ([]relation.Relationship, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var rels []relation.Relationship
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if stderrors.As(err, &pe) {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, pe.Err, "line %d: malformed CSV", pe.Line)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV")
		}
		line, _ := cr.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		if len(rec) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"line %d: each line must be source,target,value (got %d fields)", line, len(rec))
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}

		rel, err := parseRecord(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line %d", line)
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

func isHeader(rec []string) bool {
	return strings.EqualFold(rec[0], "source") &&
		strings.EqualFold(rec[1], "target") &&
		strings.EqualFold(rec[2], "value")
}

func parseRecord(rec []string) (relation.Relationship, error) {
	rel := relation.Relationship{Source: rec[0], Target: rec[1]}
	if err := errors.ValidateLabel(rel.Source); err != nil {
		return rel, fmt.Errorf("source: %w", err)
	}
	if err := errors.ValidateLabel(rel.Target); err != nil {
		return rel, fmt.Errorf("target: %w", err)
	}

	v, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return rel, errors.New(errors.ErrCodeInvalidInput, "invalid value: %q", rec[2])
	}
	if err := errors.ValidateValue(v); err != nil {
		return rel, err
	}
	rel.Value = v
	return rel, nil
}

// ReadJSON decodes a JSON array of relationships from r and validates it.
func ReadJSON(r io.Reader) ([]relation.Relationship, error) {
	var rels []relation.Relationship
	if err := json.NewDecoder(r).Decode(&rels); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON")
	}
	if err := relation.Validate(rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// ReadYAML decodes a YAML sequence of relationships from r and validates it.
// An empty document yields an empty set.
func ReadYAML(r io.Reader) ([]relation.Relationship, error) {
	var rels []relation.Relationship
	if err := yaml.NewDecoder(r).Decode(&rels); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode YAML")
	}
	if err := relation.Validate(rels); err != nil {
		return nil, err
	}
	return rels, nil
}

// Read decodes rels from r using the reader registered for ext.
func Read(r io.Reader, ext string) ([]relation.Relationship, error) {
	switch strings.ToLower(ext) {
	case ExtCSV, "":
		return ReadCSV(r)
	case ExtJSON:
		return ReadJSON(r)
	case ExtYAML, ExtYML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (want .csv, .json, .yaml)", ext)
	}
}

// Import reads the relationship file at path, choosing the decoder from the
// file extension. Files without an extension are read as CSV.
func Import(path string) ([]relation.Relationship, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, filepath.Ext(path))
}
