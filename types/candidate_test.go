package types

import "testing"

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"", 5, ""},
		{"hello", 0, ""},
		{"日本語テキスト", 3, "日本語"},
	}
	for _, tc := range cases {
		if got := TruncateRunes(tc.in, tc.max); got != tc.want {
			t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestHashTextIsStable(t *testing.T) {
	a := HashText("Big Launch\nA major product launch.")
	b := HashText("Big Launch\nA major product launch.")
	if a != b {
		t.Error("same text must hash identically")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
	if a == HashText("different text") {
		t.Error("different text must hash differently")
	}
}
