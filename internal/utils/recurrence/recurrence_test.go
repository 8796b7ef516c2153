package recurrence_test

import (
	"testing"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/recurrence"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	cases := []struct {
		name   string
		period domain.RecurrencePeriod
		day    int
		base   time.Time
		want   time.Time
	}{
		{"monthly day 31 clamps to leap february", domain.Monthly, 31, date(2024, time.January, 31), date(2024, time.February, 29)},
		{"monthly day 31 recovers to march 31", domain.Monthly, 31, date(2024, time.February, 29), date(2024, time.March, 31)},
		{"monthly day 31 clamps to april 30", domain.Monthly, 31, date(2024, time.March, 31), date(2024, time.April, 30)},
		{"monthly day 31 in non-leap february", domain.Monthly, 31, date(2025, time.January, 31), date(2025, time.February, 28)},
		{"monthly mid-month", domain.Monthly, 10, date(2024, time.May, 10), date(2024, time.June, 10)},
		{"bimonthly", domain.Bimonthly, 15, date(2024, time.November, 15), date(2025, time.January, 15)},
		{"quarterly across year end", domain.Quarterly, 5, date(2024, time.December, 5), date(2025, time.March, 5)},
		{"semiannual", domain.Semiannual, 30, date(2024, time.August, 30), date(2025, time.February, 28)},
		{"annual from leap day", domain.Annual, 29, date(2024, time.February, 29), date(2025, time.February, 28)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := domain.RecurrenceRule{Period: tc.period, DayOfMonth: tc.day}
			got := recurrence.NextDueDate(rule, tc.base)
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}
}

func TestDue(t *testing.T) {
	origin := date(2024, time.June, 15)
	assert.False(t, recurrence.Due(origin, date(2024, time.June, 14)))
	assert.True(t, recurrence.Due(origin, date(2024, time.June, 15)))
	assert.True(t, recurrence.Due(origin, date(2024, time.July, 1)))
	// time-of-day must not matter
	assert.True(t, recurrence.Due(origin, time.Date(2024, time.June, 15, 23, 50, 0, 0, time.UTC)))
}

func TestExhausted(t *testing.T) {
	end := date(2024, time.December, 31)
	cap3 := 3

	t.Run("end date reached", func(t *testing.T) {
		rule := domain.RecurrenceRule{Period: domain.Monthly, DayOfMonth: 10, EndDate: &end}
		assert.False(t, recurrence.Exhausted(rule, date(2024, time.December, 10), 5))
		assert.True(t, recurrence.Exhausted(rule, date(2025, time.January, 10), 5))
	})

	t.Run("occurrence cap reached", func(t *testing.T) {
		rule := domain.RecurrenceRule{Period: domain.Monthly, DayOfMonth: 10, OccurrenceCap: &cap3}
		assert.False(t, recurrence.Exhausted(rule, date(2024, time.March, 10), 2))
		assert.True(t, recurrence.Exhausted(rule, date(2024, time.April, 10), 3))
	})

	t.Run("first limit reached wins", func(t *testing.T) {
		rule := domain.RecurrenceRule{Period: domain.Monthly, DayOfMonth: 10, EndDate: &end, OccurrenceCap: &cap3}
		// cap allows one more but the end date does not
		assert.True(t, recurrence.Exhausted(rule, date(2025, time.February, 10), 2))
		// end date allows it but the cap does not
		assert.True(t, recurrence.Exhausted(rule, date(2024, time.October, 10), 3))
	})

	t.Run("no limits", func(t *testing.T) {
		rule := domain.RecurrenceRule{Period: domain.Monthly, DayOfMonth: 10}
		assert.False(t, recurrence.Exhausted(rule, date(2099, time.January, 10), 1000))
	})
}
