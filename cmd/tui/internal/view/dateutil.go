package view

import (
	"time"

	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

type Timeframe int

const (
	TimeframeAll       Timeframe = 0
	TimeframeThisWeek  Timeframe = 1
	TimeframeThisMonth Timeframe = 2
	TimeframeLastMonth Timeframe = 3

	timeframeCount = 4
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeAll:
		return "All Time"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// Next cycles through the timeframes.
func (t Timeframe) Next() Timeframe {
	return (t + 1) % timeframeCount
}

// Filter returns the ledger filter covering the timeframe relative to now.
// Transaction dates are UTC midnights, so bounds are whole UTC days.
func (t Timeframe) Filter(now time.Time) transaction.Filter {
	today := transaction.DateOf(now)

	var start, end time.Time

	switch t {
	case TimeframeThisWeek:
		offset := int(today.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = today.AddDate(0, 0, -offset+1)
		end = start.AddDate(0, 0, 6)
	case TimeframeThisMonth:
		start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	case TimeframeLastMonth:
		start = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	default:
		return transaction.Filter{}
	}

	return transaction.Filter{StartDate: &start, EndDate: &end}
}
