package buildinfo

import (
	"strings"
	"testing"
)

func TestServerHeader(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "v1.2.3"
	if got := ServerHeader(); got != "chordwheel/v1.2.3" {
		t.Errorf("ServerHeader() = %q", got)
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template() missing version: %q", Template())
	}
}

func TestGet(t *testing.T) {
	old := Commit
	defer func() { Commit = old }()

	Commit = "abc123"
	if got := Get(); got.Commit != "abc123" || got.Version != Version || got.Date != Date {
		t.Errorf("Get() = %+v", got)
	}
	if !strings.Contains(String(), "commit: abc123") {
		t.Errorf("String() = %q", String())
	}
}
