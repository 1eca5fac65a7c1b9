package token

import "testing"

func TestParseDateTimeDateOnly(t *testing.T) {
	ms, ok := ParseDateTime("2024-02-29")
	if !ok {
		t.Fatal("expected leap-day to parse")
	}
	if got := formatDateTimeMs(ms); got != "2024-02-29" {
		t.Errorf("round-trip got %q", got)
	}
}

func TestParseDateTimeRejectsNonLeapFeb29(t *testing.T) {
	if _, ok := ParseDateTime("2023-02-29"); ok {
		t.Fatal("2023 is not a leap year, Feb 29 must be rejected")
	}
}

func TestParseDateTimeWithTime(t *testing.T) {
	ms, ok := ParseDateTime("2000-01-01 12:30:15.500")
	if !ok {
		t.Fatal("expected full datetime to parse")
	}
	if got := formatDateTimeMs(ms); got != "2000-01-01 12:30:15.500" {
		t.Errorf("round-trip got %q", got)
	}
}

func TestParseDateTimeRejectsOutOfRangeYear(t *testing.T) {
	if _, ok := ParseDateTime("1969-01-01"); ok {
		t.Fatal("year before 1970 must be rejected")
	}
	if _, ok := ParseDateTime("2101-01-01"); ok {
		t.Fatal("year after 2100 must be rejected")
	}
}

func TestParseDateTimeRejectsGarbage(t *testing.T) {
	if _, ok := ParseDateTime("hello world"); ok {
		t.Fatal("non-date string must be rejected")
	}
}
