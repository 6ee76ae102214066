package summary

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantText   string
		wantResolv string
	}{
		{
			name:       "both labels",
			reply:      "Summary: Analysis hangs at 80%.\nResolution: Increase the JVM heap.",
			wantText:   "Analysis hangs at 80%.",
			wantResolv: "Increase the JVM heap.",
		},
		{
			name:       "multiline sections",
			reply:      "Summary:\nline one\nline two\n\nResolution:\n1. step\n2. step",
			wantText:   "line one\nline two",
			wantResolv: "1. step\n2. step",
		},
		{
			name:       "unlabeled",
			reply:      "  The customer cannot log in.  ",
			wantText:   "The customer cannot log in.",
			wantResolv: "",
		},
		{
			name:       "summary only",
			reply:      "SUMMARY: license expired",
			wantText:   "license expired",
			wantResolv: "",
		},
		{
			name:       "resolution only keeps preamble as summary",
			reply:      "Login fails after upgrade.\nResolution: clear the token cache",
			wantText:   "Login fails after upgrade.",
			wantResolv: "clear the token cache",
		},
		{
			name:       "markdown labels",
			reply:      "**Summary:** slow dashboard\n## Resolution: rebuild the index",
			wantText:   "slow dashboard",
			wantResolv: "rebuild the index",
		},
		{
			name:       "reversed order",
			reply:      "Resolution: restart\nSummary: crash on start",
			wantText:   "crash on start",
			wantResolv: "restart",
		},
		{
			name:       "label mid-line is text",
			reply:      "The summary: it broke",
			wantText:   "The summary: it broke",
			wantResolv: "",
		},
		{
			name:       "empty",
			reply:      "",
			wantText:   "",
			wantResolv: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Parse(tc.reply)
			if s.Text() != tc.wantText {
				t.Errorf("text = %q, want %q", s.Text(), tc.wantText)
			}
			if s.Resolution() != tc.wantResolv {
				t.Errorf("resolution = %q, want %q", s.Resolution(), tc.wantResolv)
			}
		})
	}
}

func TestSummary_IsEmpty(t *testing.T) {
	if !(Summary{}).IsEmpty() {
		t.Error("zero summary should be empty")
	}
	if New("  ", "\n").IsEmpty() != true {
		t.Error("whitespace-only summary should be empty")
	}
	if New("x", "").IsEmpty() {
		t.Error("summary with text is not empty")
	}
}
