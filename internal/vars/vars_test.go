package vars

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := String()
	if !strings.Contains(s, Version) {
		t.Fatalf("version missing in %q", s)
	}
	if !strings.Contains(s, Commit) {
		t.Fatalf("commit missing in %q", s)
	}
}
