package utils

import (
	"fmt"
	"time"

	"github.com/scmhub/calendar"
)

// -----------------------------------------------------------------------------

const dateTimeLayout = "2006-01-02 15:04"

// TradingCalendar answers trading-day questions for one exchange, with a
// simple weekday fallback when the MIC is not in the calendar library.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// GetCalendar resolves an exchange name to a trading calendar.
// See scmhub/calendar for supported MICs (ISO 10383).
func GetCalendar(exchange string) *TradingCalendar {
	mic := "xnse" // NSE India, the gateway's default exchange
	switch exchange {
	case "BSE":
		mic = "xbom"
	case "NYSE":
		mic = "xnys"
	case "NASDAQ":
		mic = "xnas"
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		// Fallback: Mon-Fri in India Standard Time
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		return &TradingCalendar{Fallback: true, Timezone: loc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// LastSessionWindow returns the 09:15-15:30 window of the most recent trading
// day at or before now, formatted the way the broker's candle endpoint
// expects (yyyy-MM-dd HH:mm).
func (tc *TradingCalendar) LastSessionWindow(now time.Time) (from string, to string, err error) {
	if tc.Timezone != nil {
		now = now.In(tc.Timezone)
	}

	day := now
	for i := 0; i < 14; i++ {
		if tc.IsTradingDay(day) {
			y, m, d := day.Date()
			open := time.Date(y, m, d, 9, 15, 0, 0, tc.Timezone)
			close := time.Date(y, m, d, 15, 30, 0, 0, tc.Timezone)
			return open.Format(dateTimeLayout), close.Format(dateTimeLayout), nil
		}
		day = day.AddDate(0, 0, -1)
	}

	return "", "", fmt.Errorf("no trading day found in the last 14 days")
}
