package token

import (
	"strconv"
	"strings"
	"time"
)

// ParseDateTime recognizes "YYYY-MM-DD[ HH:MM[:SS[.fff]]]" per,
// returning the value in milliseconds since the Unix epoch. year must fall
// in [1970, 2100]. ok is false for anything that doesn't match the grammar,
// which lets the lexer fall back to treating the literal as an ordinary
// string instead of a DateTimeLit.
func ParseDateTime(s string) (ms int64, ok bool) {
	datePart, timePart, hasTime := strings.Cut(s, " ")
	if len(datePart) != 10 || datePart[4] != '-' || datePart[7] != '-' {
		return 0, false
	}
	year, err := strconv.Atoi(datePart[0:4])
	if err != nil || year < 1970 || year > 2100 {
		return 0, false
	}
	month, err := strconv.Atoi(datePart[5:7])
	if err != nil || month < 1 || month > 12 {
		return 0, false
	}
	day, err := strconv.Atoi(datePart[8:10])
	if err != nil || day < 1 || day > daysInMonth(year, month) {
		return 0, false
	}

	hour, min, sec, millis := 0, 0, 0, 0
	if hasTime {
		fields := strings.Split(timePart, ":")
		if len(fields) < 2 || len(fields) > 3 {
			return 0, false
		}
		if hour, err = strconv.Atoi(fields[0]); err != nil || hour < 0 || hour > 23 {
			return 0, false
		}
		if min, err = strconv.Atoi(fields[1]); err != nil || min < 0 || min > 59 {
			return 0, false
		}
		if len(fields) == 3 {
			secStr, fracStr, hasFrac := strings.Cut(fields[2], ".")
			if sec, err = strconv.Atoi(secStr); err != nil || sec < 0 || sec > 59 {
				return 0, false
			}
			if hasFrac {
				if millis, err = strconv.Atoi(fracStr); err != nil || millis < 0 || millis > 999 {
					return 0, false
				}
			}
		}
	}

	t := time.Date(year, time.Month(month), day, hour, min, sec, millis*int(time.Millisecond), time.UTC)
	return t.UnixMilli(), true
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInMonth(year, month int) int {
	days := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return days[month-1]
}

// formatDateTimeMs is the inverse of ParseDateTime, used by Value.String().
func formatDateTimeMs(ms int64) string {
	t := time.UnixMilli(ms).UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	if t.Nanosecond() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02 15:04:05.000")
}
