package timeseries

import (
	"errors"
	"testing"
	"time"

	"bridge-tvl/internal/domain"
)

func ts(t *testing.T, value string) domain.UnixTime {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	result, err := domain.FromTime(parsed)
	if err != nil {
		t.Fatalf("timestamp %q: %v", value, err)
	}
	return result
}

func TestTimestamps_InvalidRange(t *testing.T) {
	from := ts(t, "2021-09-07T15:00:00Z")
	to := ts(t, "2021-09-07T13:00:00Z")

	_, err := Timestamps(from, to, domain.GranularityHourly)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestTimestamps_HourlyAligned(t *testing.T) {
	from := ts(t, "2021-09-07T13:00:00Z")
	to := ts(t, "2021-09-07T15:00:00Z")

	got, err := Timestamps(from, to, domain.GranularityHourly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.UnixTime{from, ts(t, "2021-09-07T14:00:00Z"), to}
	assertTimestamps(t, got, want)
}

func TestTimestamps_HourlyUnaligned(t *testing.T) {
	from := ts(t, "2021-09-07T13:01:00Z")
	to := ts(t, "2021-09-07T15:01:00Z")

	got, err := Timestamps(from, to, domain.GranularityHourly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.UnixTime{ts(t, "2021-09-07T14:00:00Z"), ts(t, "2021-09-07T15:00:00Z")}
	assertTimestamps(t, got, want)
}

func TestTimestamps_HourlyAcrossMidnight(t *testing.T) {
	from := ts(t, "2021-09-07T23:00:00Z")
	to := ts(t, "2021-09-08T01:00:00Z")

	got, err := Timestamps(from, to, domain.GranularityHourly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.UnixTime{from, ts(t, "2021-09-08T00:00:00Z"), to}
	assertTimestamps(t, got, want)
}

func TestTimestamps_DailyAligned(t *testing.T) {
	from := ts(t, "2021-09-07T00:00:00Z")
	to := ts(t, "2021-09-09T00:00:00Z")

	got, err := Timestamps(from, to, domain.GranularityDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.UnixTime{from, ts(t, "2021-09-08T00:00:00Z"), to}
	assertTimestamps(t, got, want)
}

func TestTimestamps_DailyUnaligned(t *testing.T) {
	from := ts(t, "2021-09-07T01:00:00Z")
	to := ts(t, "2021-09-09T01:00:00Z")

	got, err := Timestamps(from, to, domain.GranularityDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.UnixTime{ts(t, "2021-09-08T00:00:00Z"), ts(t, "2021-09-09T00:00:00Z")}
	assertTimestamps(t, got, want)
}

func TestTimestamps_EmptyWhenRangeTooNarrow(t *testing.T) {
	from := ts(t, "2021-09-07T00:01:00Z")
	to := ts(t, "2021-09-07T23:59:00Z")

	got, err := Timestamps(from, to, domain.GranularityDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty grid, got %d points", len(got))
	}
}

func TestTimestamps_Properties(t *testing.T) {
	from := ts(t, "2021-09-07T03:17:00Z")
	to := ts(t, "2021-09-19T21:42:00Z")

	for _, g := range []domain.Granularity{domain.GranularityHourly, domain.GranularityDaily} {
		got, err := Timestamps(from, to, g)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", g, err)
		}
		for i, point := range got {
			if !point.IsExact(g.Step()) {
				t.Errorf("%v: point %d not aligned: %d", g, i, point)
			}
			if point < from || point > to {
				t.Errorf("%v: point %d out of range: %d", g, i, point)
			}
			if i > 0 && got[i-1].Add(g.Step()) != point {
				t.Errorf("%v: points %d and %d not step-spaced", g, i-1, i)
			}
		}
	}
}

func assertTimestamps(t *testing.T, got, want []domain.UnixTime) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d timestamps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("timestamp %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}
