package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/chordwheel/pkg/relation"
)

// WriteCSV encodes rels as "source,target,value" lines without a header.
// Values use the shortest representation that round-trips, so the output
// can be re-imported with [ReadCSV] unchanged.
func WriteCSV(w io.Writer, rels []relation.Relationship) error {
	cw := csv.NewWriter(w)
	for _, r := range rels {
		rec := []string{r.Source, r.Target, strconv.FormatFloat(r.Value, 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON encodes rels as an indented JSON array.
func WriteJSON(w io.Writer, rels []relation.Relationship) error {
	if rels == nil {
		rels = []relation.Relationship{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rels); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// ExportCSV writes rels to the file at path, replacing any existing file.
func ExportCSV(path string, rels []relation.Relationship) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
