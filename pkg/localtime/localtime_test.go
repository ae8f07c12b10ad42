package localtime

import (
	"testing"
	"time"
)

func TestLocalizeKeepsWallClock(t *testing.T) {
	naive := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	got := Localize(naive)
	if got.Location().String() != Zone {
		t.Fatalf("expected %s got %s", Zone, got.Location())
	}
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Fatalf("wall clock changed: %v", got)
	}
}

func TestNaiveRoundTrip(t *testing.T) {
	instant := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)
	naive := Naive(instant)
	// Sao Paulo is UTC-3 without DST since 2019
	if naive.Hour() != 14 {
		t.Fatalf("expected 14h wall clock got %v", naive)
	}
	if !Localize(naive).Equal(instant) {
		t.Fatalf("round trip mismatch: %v vs %v", Localize(naive), instant)
	}
}

func TestZeroTimeUntouched(t *testing.T) {
	if !Localize(time.Time{}).IsZero() || !Naive(time.Time{}).IsZero() {
		t.Fatalf("zero time should stay zero")
	}
}
