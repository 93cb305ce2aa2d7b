package token

import "testing"

func TestFromStringRoundtrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{name: "city", in: "berlin", ok: true},
		{name: "digits", in: "us_01", ok: true},
		{name: "max length", in: "abcdefghijkl", ok: true},
		{name: "upper folds", in: "Berlin", ok: true},
		{name: "too long", in: "abcdefghijklm", ok: false},
		{name: "dot", in: "city.berlin", ok: false},
		{name: "empty", in: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok := FromString(tt.in)
			if (tok != 0) != tt.ok {
				t.Fatalf("token=%d ok want %v", tok, tt.ok)
			}
			if !tt.ok {
				return
			}

			want := toLower(tt.in)
			if got := tok.String(); got != want {
				t.Fatalf("got=%q want %q", got, want)
			}
		})
	}
}

func TestFromStringDistinct(t *testing.T) {
	t.Parallel()

	if FromString("ab") == FromString("ba") {
		t.Fatalf("order must matter")
	}
	if FromString("a") != 11 {
		t.Fatalf("a=%d want 11", FromString("a"))
	}
}

func TestPart(t *testing.T) {
	t.Parallel()

	if got := Part("prefab.us_01 {", 1); got != FromString("us_01") {
		t.Fatalf("got=%v", got)
	}
	if got := Part("conn.port_a.port_b{", 2); got != FromString("port_b") {
		t.Fatalf("got=%v", got)
	}
	if got := Part("nodot", 1); got != 0 {
		t.Fatalf("got=%v want 0", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	if tok, ok := Parse("0x10"); !ok || tok != 16 {
		t.Fatalf("hex: %v %v", tok, ok)
	}
	if tok, ok := Parse("berlin"); !ok || tok != FromString("berlin") {
		t.Fatalf("name: %v %v", tok, ok)
	}
	if _, ok := Parse("not valid!"); ok {
		t.Fatalf("expected failure")
	}
}

func TestHash32Deterministic(t *testing.T) {
	t.Parallel()

	a := Hash32("road.look1")
	if a != Hash32("road.look1") {
		t.Fatalf("hash not deterministic")
	}
	if a == Hash32("road.look2") {
		t.Fatalf("hash collision for different inputs")
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := NewFingerprint()
	a.Add("def/city.sii", []byte("x"))
	b := NewFingerprint()
	b.Add("def/city.sii", []byte("x"))
	if a.Sum() != b.Sum() {
		t.Fatalf("fingerprint not deterministic")
	}

	b.AddString("extra")
	if a.Sum() == b.Sum() {
		t.Fatalf("fingerprint ignores input")
	}
}

func toLower(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + 32
		}
	}

	return string(out)
}
