package summary

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/triage/internal/domain"
)

func TestBudgetTracker_RejectWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionReject, zap.NewNop())

	bt.Record(100)

	err := bt.Check(context.Background())
	if !errors.Is(err, domain.ErrSummaryQuotaExceeded) {
		t.Fatalf("expected domain.ErrSummaryQuotaExceeded, got %v", err)
	}
}

func TestBudgetTracker_WarnWhenExceeded(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 0, BudgetActionWarn, zap.NewNop())

	bt.Record(200)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for warn action, got %v", err)
	}
}

func TestBudgetTracker_MonthlyReject(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 500, BudgetActionReject, zap.NewNop())

	bt.Record(500)

	if err := bt.Check(context.Background()); !errors.Is(err, domain.ErrSummaryQuotaExceeded) {
		t.Fatalf("expected domain.ErrSummaryQuotaExceeded for monthly limit, got %v", err)
	}
}

func TestBudgetTracker_UnlimitedWhenZero(t *testing.T) {
	bt := NewBudgetTracker("test", 0, 0, BudgetActionReject, zap.NewNop())

	bt.Record(999999999)

	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected nil error for unlimited budget, got %v", err)
	}
	if bt.RemainingDaily() != -1 || bt.RemainingMonthly() != -1 {
		t.Errorf("expected -1 remaining for unlimited, got %d/%d", bt.RemainingDaily(), bt.RemainingMonthly())
	}
}

func TestBudgetTracker_Remaining(t *testing.T) {
	bt := NewBudgetTracker("test", 1000, 10000, BudgetActionWarn, zap.NewNop())

	bt.Record(300)
	bt.Record(0)
	bt.Record(-50)

	if daily := bt.RemainingDaily(); daily != 700 {
		t.Errorf("expected daily remaining 700, got %d", daily)
	}
	if monthly := bt.RemainingMonthly(); monthly != 9700 {
		t.Errorf("expected monthly remaining 9700, got %d", monthly)
	}

	bt.Record(5000)
	if daily := bt.RemainingDaily(); daily != 0 {
		t.Errorf("expected daily remaining clamped to 0, got %d", daily)
	}
}

func TestBudgetTracker_DayRollover(t *testing.T) {
	bt := NewBudgetTracker("test", 100, 1000, BudgetActionReject, zap.NewNop())
	now := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	bt.now = func() time.Time { return now }
	bt.lastDayReset = truncateToDay(now)
	bt.lastMonthReset = truncateToMonth(now)

	bt.Record(100)
	if err := bt.Check(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	now = now.Add(2 * time.Minute) // April 1st
	if err := bt.Check(context.Background()); err != nil {
		t.Fatalf("expected budget reset after rollover, got %v", err)
	}
	if got := bt.RemainingMonthly(); got != 1000 {
		t.Errorf("monthly counter should reset on new month, remaining %d", got)
	}
}

func TestParseBudgetAction(t *testing.T) {
	tests := []struct {
		in      string
		want    BudgetAction
		wantErr bool
	}{
		{"", BudgetActionWarn, false},
		{"warn", BudgetActionWarn, false},
		{"reject", BudgetActionReject, false},
		{"block", "", true},
	}
	for _, tc := range tests {
		got, err := ParseBudgetAction(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseBudgetAction(%q) err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseBudgetAction(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// --- Mock BudgetStore ---

type mockBudgetStore struct {
	mu     sync.Mutex
	data   map[string]int64
	getErr error
	setErr error
}

func newMockBudgetStore() *mockBudgetStore {
	return &mockBudgetStore{data: make(map[string]int64)}
}

func (m *mockBudgetStore) IncrBy(_ context.Context, key string, val int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] += val
	return nil
}

func (m *mockBudgetStore) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.data[key], nil
}

func (m *mockBudgetStore) value(key string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// --- Persistence tests ---

func TestBudgetTracker_WithStore_LoadsValues(t *testing.T) {
	store := newMockBudgetStore()
	probe := NewBudgetTracker("summarizer", 1000, 10000, BudgetActionReject, zap.NewNop())
	now := probe.now()
	store.data[probe.dailyKey(now)] = 400
	store.data[probe.monthlyKey(now)] = 9000

	bt := NewBudgetTracker("summarizer", 1000, 10000, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)

	if got := bt.RemainingDaily(); got != 600 {
		t.Errorf("expected daily remaining 600, got %d", got)
	}
	if got := bt.RemainingMonthly(); got != 1000 {
		t.Errorf("expected monthly remaining 1000, got %d", got)
	}
}

func TestBudgetTracker_Record_PersistsToStore(t *testing.T) {
	store := newMockBudgetStore()
	bt := NewBudgetTracker("summarizer", 1000, 10000, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)

	bt.Record(150)
	bt.Record(50)
	bt.Flush()

	now := bt.now()
	if got := store.value(bt.dailyKey(now)); got != 200 {
		t.Errorf("expected daily key 200, got %d", got)
	}
	if got := store.value(bt.monthlyKey(now)); got != 200 {
		t.Errorf("expected monthly key 200, got %d", got)
	}
}

func TestBudgetTracker_StoreErrorsAreNotFatal(t *testing.T) {
	store := newMockBudgetStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")

	bt := NewBudgetTracker("summarizer", 1000, 0, BudgetActionReject, zap.NewNop()).
		WithStore(context.Background(), store)
	bt.Record(100)
	bt.Flush()

	if got := bt.RemainingDaily(); got != 900 {
		t.Errorf("in-memory counter should still advance, remaining %d", got)
	}
	if err := bt.Check(context.Background()); err != nil {
		t.Errorf("unexpected check error: %v", err)
	}
}

func TestBudgetTracker_KeyFormat(t *testing.T) {
	bt := NewBudgetTracker("summarizer", 0, 0, BudgetActionWarn, zap.NewNop())
	ts := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)

	if got := bt.dailyKey(ts); got != "triage:budget:summarizer:daily:2026-02-14" {
		t.Errorf("daily key = %q", got)
	}
	if got := bt.monthlyKey(ts); got != "triage:budget:summarizer:monthly:2026-02" {
		t.Errorf("monthly key = %q", got)
	}
}

func TestBudgetTracker_UsedAndLimits(t *testing.T) {
	bt := NewBudgetTracker("test", 1000, 20000, BudgetActionWarn, zap.NewNop())
	bt.Record(120)
	bt.Record(30)

	if bt.DailyUsed() != 150 || bt.MonthlyUsed() != 150 {
		t.Errorf("used = %d/%d, want 150/150", bt.DailyUsed(), bt.MonthlyUsed())
	}
	if bt.DailyLimit() != 1000 || bt.MonthlyLimit() != 20000 {
		t.Errorf("limits = %d/%d", bt.DailyLimit(), bt.MonthlyLimit())
	}
}
