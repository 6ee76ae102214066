package keyword

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"drops stopwords", "billing issue", 8, "billing"},
		{"drops short tokens", "the app is up now", 8, "CAST"},
		{"keeps case", "License Activation failure", 8, "License Activation"},
		{"caps tokens", "alpha bravo charlie delta echoo foxtrot", 3, "alpha bravo charlie"},
		{"must start with letter", "4abc abcd 1234 x_yz_", 8, "abcd x_yz_"},
		{"keeps repeated tokens", "Analyzer analyzer ANALYZER crash", 8, "Analyzer analyzer ANALYZER crash"},
		{"punctuation splits", "sql-server: timeout;deadlock", 8, "server timeout deadlock"},
		{"empty", "", 8, "CAST"},
		{"only stopwords", "Please help, ticket failed with error", 8, "CAST"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("Normalize(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestNormalize_IdempotentAndNonEmpty(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"billing issue",
		"Unable to login after upgrade to 8.3.45, error CAST-IMAGING-0042 on analysis_service",
		"ticket please problem",
		"ÄÖÜ ümlaut straße naïve",
		strings.Repeat("word ", 100),
		"one two three four five six seven eight nine ten eleven twelve",
		"CAST",
	}
	for _, max := range []int{1, 6, 8} {
		for _, in := range inputs {
			once := Normalize(in, max)
			if once == "" {
				t.Errorf("Normalize(%q, %d) returned empty", in, max)
			}
			if twice := Normalize(once, max); twice != once {
				t.Errorf("not idempotent for %q (max %d): %q -> %q", in, max, once, twice)
			}
			if n := len(strings.Fields(once)); n > max {
				t.Errorf("Normalize(%q, %d) returned %d tokens", in, max, n)
			}
		}
	}
}

func TestNew_FallbackMustBeStable(t *testing.T) {
	if _, err := New(8, "product documentation"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New(8, "the doc"); err != nil {
		t.Fatalf("fallback with no surviving tokens is stable: %v", err)
	}
	if _, err := New(8, "please restart server"); err == nil {
		t.Fatal("expected error for fallback containing a stopword")
	}
}

func TestNormalizer_CustomFallback(t *testing.T) {
	n, err := New(6, "imaging")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.Normalize("please help"); got != "imaging" {
		t.Errorf("got %q, want fallback", got)
	}
	if n.MaxWords() != 6 || n.Fallback() != "imaging" {
		t.Errorf("unexpected settings: %d %q", n.MaxWords(), n.Fallback())
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("ERROR") {
		t.Error("stopword matching should be case-insensitive")
	}
	if IsStopword("billing") {
		t.Error("billing is not a stopword")
	}
}
