package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/triage/internal/domain"
)

// --- Mock ---

type mockBudgetReader struct {
	dailyLimit       int64
	monthlyLimit     int64
	dailyUsed        int64
	monthlyUsed      int64
	remainingDaily   int64
	remainingMonthly int64
}

func (m *mockBudgetReader) DailyLimit() int64       { return m.dailyLimit }
func (m *mockBudgetReader) MonthlyLimit() int64     { return m.monthlyLimit }
func (m *mockBudgetReader) DailyUsed() int64        { return m.dailyUsed }
func (m *mockBudgetReader) MonthlyUsed() int64      { return m.monthlyUsed }
func (m *mockBudgetReader) RemainingDaily() int64   { return m.remainingDaily }
func (m *mockBudgetReader) RemainingMonthly() int64 { return m.remainingMonthly }

func fixedNow(svc *Service) time.Time {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return now
}

// --- Tests ---

func TestGetReport_DailyPeriod(t *testing.T) {
	svc := New(&mockBudgetReader{
		dailyLimit:       10000,
		dailyUsed:        3000,
		remainingDaily:   7000,
		monthlyLimit:     100000,
		monthlyUsed:      50000,
		remainingMonthly: 50000,
	})
	fixedNow(svc)

	r := svc.GetReport(context.Background(), PeriodDay)

	if r.Period != PeriodDay {
		t.Errorf("expected period %q, got %q", PeriodDay, r.Period)
	}
	wantStart := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(wantStart.Add(24*time.Hour)) {
		t.Errorf("window = %s..%s", r.Start, r.End)
	}
	if r.Tokens != 3000 || r.Limit != 10000 || r.Remaining != 7000 {
		t.Errorf("tokens/limit/remaining = %d/%d/%d", r.Tokens, r.Limit, r.Remaining)
	}
	if r.Exhausted {
		t.Error("expected not exhausted")
	}
	if !r.ResetsAt.Equal(r.End) {
		t.Errorf("resets at %s, want %s", r.ResetsAt, r.End)
	}
}

func TestGetReport_MonthlyPeriod(t *testing.T) {
	svc := New(&mockBudgetReader{
		monthlyLimit:     100000,
		monthlyUsed:      100000,
		remainingMonthly: 0,
	})
	fixedNow(svc)

	r := svc.GetReport(context.Background(), PeriodMonth)

	wantStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !r.Start.Equal(wantStart) || !r.End.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window = %s..%s", r.Start, r.End)
	}
	if r.Tokens != 100000 {
		t.Errorf("tokens = %d", r.Tokens)
	}
	if !r.Exhausted {
		t.Error("expected exhausted")
	}
}

func TestGetReport_UnlimitedBudget(t *testing.T) {
	svc := New(&mockBudgetReader{dailyUsed: 42, remainingDaily: -1})
	r := svc.GetReport(context.Background(), PeriodDay)

	if r.Tokens != 42 {
		t.Errorf("tokens = %d, want 42", r.Tokens)
	}
	if r.Limit != -1 || r.Remaining != -1 {
		t.Errorf("limit/remaining = %d/%d, want -1/-1", r.Limit, r.Remaining)
	}
	if r.Exhausted {
		t.Error("unlimited budget is never exhausted")
	}
}

func TestGetReport_NilReader(t *testing.T) {
	r := New(nil).GetReport(context.Background(), PeriodMonth)

	if r.Tokens != 0 || r.Limit != -1 || r.Remaining != -1 || r.Exhausted {
		t.Errorf("report = %+v", r)
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"", PeriodMonth, false},
		{"month", PeriodMonth, false},
		{"day", PeriodDay, false},
		{"year", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrMalformedInput) {
				t.Errorf("ParsePeriod(%q): expected ErrMalformedInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePeriod(%q) = %q, %v", tt.in, got, err)
		}
	}
}
