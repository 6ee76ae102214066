package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/triage/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantMode Mode
		wantID   int64
		wantText string
	}{
		{"plain id", "42", Ticket, 42, ""},
		{"hash id", "#1234", Ticket, 1234, ""},
		{"padded id", "  7 ", Ticket, 7, ""},
		{"text", "license activation failure", Text, 0, "license activation failure"},
		{"mixed", "42 billing", Text, 0, "42 billing"},
		{"negative is text", "-5", Text, 0, "-5"},
		{"trimmed text", "  hello  ", Text, 0, "hello"},
		{"bare hash", "#", Text, 0, "#"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Parse(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.Mode() != tc.wantMode {
				t.Errorf("mode = %q, want %q", q.Mode(), tc.wantMode)
			}
			if q.TicketID() != tc.wantID {
				t.Errorf("ticket id = %d, want %d", q.TicketID(), tc.wantID)
			}
			if q.Text() != tc.wantText {
				t.Errorf("text = %q, want %q", q.Text(), tc.wantText)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"0",
		"#0",
		"99999999999999999999999",
		strings.Repeat("a", MaxTextLength+1),
	}
	for _, raw := range inputs {
		_, err := Parse(raw)
		if !errors.Is(err, domain.ErrMalformedInput) {
			t.Errorf("Parse(%q): expected ErrMalformedInput, got %v", raw, err)
		}
	}
}

func TestNewTicket_RejectsNonPositive(t *testing.T) {
	for _, id := range []int64{0, -1} {
		if _, err := NewTicket(id); !errors.Is(err, domain.ErrMalformedInput) {
			t.Errorf("NewTicket(%d): expected ErrMalformedInput, got %v", id, err)
		}
	}
}

func TestQuery_String(t *testing.T) {
	q, _ := NewTicket(42)
	if q.String() != "42" {
		t.Errorf("got %q", q.String())
	}
	q, _ = NewText("hello world")
	if q.String() != "hello world" {
		t.Errorf("got %q", q.String())
	}
	if !(Query{}).IsZero() {
		t.Error("zero query should report IsZero")
	}
}
