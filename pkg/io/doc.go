// Package io reads and writes relationship sets.
//
// # Overview
//
// The chord pipeline consumes an ordered list of relation.Relationship
// triples. This package is the ingestion boundary that turns files and
// request bodies into that list, validating as it goes so the layout engine
// never sees malformed data.
//
// # CSV Format
//
// One relationship per line, three comma-separated fields:
//
//	2 Finance,A. Policy,4
//	A1 Intake,A. Policy,5
//	A1 Intake,A1 Intake,0
//
// Fields are trimmed. Blank lines are skipped. An optional header row
// "source,target,value" is ignored. Values must parse as finite numbers;
// zero and negative values are accepted. Fields containing commas may be
// quoted.
//
// # JSON and YAML
//
// Both formats carry an array of objects with source, target and value keys:
//
//	[{"source": "A1 Intake", "target": "A. Policy", "value": 5}]
//
// # Errors
//
// Every reader reports problems as errors.ErrCodeInvalidInput with the
// 1-based line (CSV) or entry (JSON/YAML) that failed.
package io
