// Package recurrence holds the pure date math behind recurring expenses.
// Persistence-side dedup (the unique (origin, due date) pair) lives in the
// expense repository; everything here is side-effect free.
package recurrence

import (
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
)

// NextDueDate adds the rule's period in calendar months to base and clamps the
// day to rule.DayOfMonth, saturating to the last valid day of the resulting
// month (day 31 in April becomes day 30, day 31 in February becomes 28 or 29).
func NextDueDate(rule domain.RecurrenceRule, base time.Time) time.Time {
	// Walk from the first of the month so AddDate can never overflow into the
	// month after the intended one (e.g. Jan 31 + 1 month != Mar 3).
	anchor := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location())
	target := anchor.AddDate(0, rule.Period.Months(), 0)

	day := rule.DayOfMonth
	if day < 1 {
		day = 1
	}
	if last := lastDayOfMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, base.Location())
}

// Due reports whether a recurrence trigger on originDue should fire today.
// Generation never runs ahead of the origin's due date.
func Due(originDue, today time.Time) bool {
	return !truncate(today).Before(truncate(originDue))
}

// Exhausted reports whether deriving an occurrence on nextDue would exceed the
// rule's limits. chainLen counts the instances already in the origin chain,
// the root included. When both end date and cap are present, whichever limit
// is reached first is authoritative.
func Exhausted(rule domain.RecurrenceRule, nextDue time.Time, chainLen int) bool {
	if rule.EndDate != nil && truncate(nextDue).After(truncate(*rule.EndDate)) {
		return true
	}
	if rule.OccurrenceCap != nil && chainLen+1 > *rule.OccurrenceCap {
		return true
	}
	return false
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
