// Package usage reports summarizer token consumption against the budget.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/triage/internal/domain"
)

// Period selects the reporting window.
type Period string

const (
	// PeriodDay is the current UTC day.
	PeriodDay Period = "day"
	// PeriodMonth is the current UTC month.
	PeriodMonth Period = "month"
)

// ParsePeriod converts a query value into a Period. Empty selects PeriodMonth.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodMonth:
		return PeriodMonth, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("%w: unknown usage period %q", domain.ErrMalformedInput, s)
	}
}

// Report is the token usage of one period. Limit and Remaining are -1 when
// the period is unlimited.
type Report struct {
	Period    Period
	Start     time.Time
	End       time.Time
	Tokens    int64
	Limit     int64
	Remaining int64
	Exhausted bool
	ResetsAt  time.Time
}

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (nothing tracked).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()
	r := Report{Period: period, Limit: -1, Remaining: -1}

	switch period {
	case PeriodDay:
		r.Start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		r.End = r.Start.Add(24 * time.Hour)
		if s.br != nil {
			r.Tokens = s.br.DailyUsed()
			r.Limit = limitOrUnlimited(s.br.DailyLimit())
			r.Remaining = s.br.RemainingDaily()
		}
	default:
		r.Period = PeriodMonth
		r.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		r.End = r.Start.AddDate(0, 1, 0)
		if s.br != nil {
			r.Tokens = s.br.MonthlyUsed()
			r.Limit = limitOrUnlimited(s.br.MonthlyLimit())
			r.Remaining = s.br.RemainingMonthly()
		}
	}

	r.Exhausted = r.Limit > 0 && r.Remaining == 0
	r.ResetsAt = r.End
	return r
}

func limitOrUnlimited(limit int64) int64 {
	if limit <= 0 {
		return -1
	}
	return limit
}
