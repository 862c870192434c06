package analytics_test

import (
	"errors"
	"testing"
	"time"

	"appinsight/internal/analytics"
	"appinsight/internal/domain"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dated(ts ...string) []domain.Review {
	out := make([]domain.Review, 0, len(ts))
	for _, s := range ts {
		out = append(out, domain.Review{Rating: 4, RawDate: at(s)})
	}
	return out
}

func TestFilter_Boundaries(t *testing.T) {
	in := dated(
		"2024-01-09T23:59:59.999Z",
		"2024-01-10T00:00:00Z",
		"2024-01-15T23:59:59.999Z",
		"2024-01-16T00:00:00Z",
	)
	r := domain.DateRange{Start: at("2024-01-10T15:00:00Z"), End: at("2024-01-15T08:00:00Z")}

	got := analytics.Filter(in, r)
	if len(got) != 2 {
		t.Fatalf("expected 2 reviews inside range, got %d", len(got))
	}
	if !got[0].RawDate.Equal(in[1].RawDate) || !got[1].RawDate.Equal(in[2].RawDate) {
		t.Fatalf("unexpected survivors: %+v", got)
	}
}

func TestFilter_OpenBoundsAndIdempotence(t *testing.T) {
	in := dated("2024-01-01T00:00:00Z", "2024-02-01T00:00:00Z", "2024-03-01T00:00:00Z")

	if got := analytics.Filter(in, domain.DateRange{}); len(got) != 3 {
		t.Fatalf("zero range must keep everything, got %d", len(got))
	}
	onlyStart := analytics.Filter(in, domain.DateRange{Start: at("2024-02-01T10:00:00Z")})
	if len(onlyStart) != 2 {
		t.Fatalf("expected 2 with start only, got %d", len(onlyStart))
	}
	onlyEnd := analytics.Filter(in, domain.DateRange{End: at("2024-01-31T00:00:00Z")})
	if len(onlyEnd) != 1 {
		t.Fatalf("expected 1 with end only, got %d", len(onlyEnd))
	}

	r := domain.DateRange{Start: at("2024-01-15T00:00:00Z")}
	once := analytics.Filter(in, r)
	twice := analytics.Filter(once, r)
	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d vs %d", len(once), len(twice))
	}
	if len(in) != 3 {
		t.Fatalf("input mutated")
	}
}

func TestResolveRange(t *testing.T) {
	now := at("2024-06-30T12:00:00Z")

	r, err := analytics.ResolveRange("last7", "", "", now, time.UTC)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !r.Start.Equal(at("2024-06-23T12:00:00Z")) || !r.End.Equal(now) {
		t.Fatalf("unexpected preset range: %+v", r)
	}

	r, err = analytics.ResolveRange("", "", "", now, time.UTC)
	if err != nil || !r.Start.IsZero() || !r.End.IsZero() {
		t.Fatalf("empty preset should be open, got %+v %v", r, err)
	}

	r, err = analytics.ResolveRange("last30", "2024-01-01", "2024-01-31", now, time.UTC)
	if err != nil || !r.Start.Equal(at("2024-01-01T00:00:00Z")) || !r.End.Equal(at("2024-01-31T00:00:00Z")) {
		t.Fatalf("explicit days should win, got %+v %v", r, err)
	}

	for _, bad := range [][3]string{{"fortnight", "", ""}, {"", "01/02/2024", ""}, {"", "2024-02-01", "2024-01-01"}} {
		if _, err := analytics.ResolveRange(bad[0], bad[1], bad[2], now, time.UTC); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %v, got %v", bad, err)
		}
	}
}

func TestDailyTrend(t *testing.T) {
	if _, err := analytics.DailyTrend(nil, time.UTC); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for no reviews, got %v", err)
	}
	sameDay := dated("2024-01-01T01:00:00Z", "2024-01-01T20:00:00Z")
	if _, err := analytics.DailyTrend(sameDay, time.UTC); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for one day, got %v", err)
	}

	in := []domain.Review{
		{Rating: 5, RawDate: at("2024-01-03T10:00:00Z")},
		{Rating: 1, RawDate: at("2024-01-01T10:00:00Z")},
		{Rating: 4, RawDate: at("2024-01-01T11:00:00Z")},
		{Rating: 2, RawDate: at("2024-01-02T10:00:00Z")},
	}
	got, err := analytics.DailyTrend(in, time.UTC)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []domain.TrendPoint{
		{Date: "2024-01-01", Average: 2.5, Count: 2},
		{Date: "2024-01-02", Average: 2, Count: 1},
		{Date: "2024-01-03", Average: 5, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDailyTrend_UsesLocation(t *testing.T) {
	ist := time.FixedZone("TRT", 3*60*60)
	in := dated("2024-01-01T22:00:00Z", "2024-01-01T10:00:00Z")
	got, err := analytics.DailyTrend(in, ist)
	if err != nil {
		t.Fatalf("expected two local days, got %v", err)
	}
	if got[0].Date != "2024-01-01" || got[1].Date != "2024-01-02" {
		t.Fatalf("unexpected local dates %+v", got)
	}
}

func TestRatingDistribution(t *testing.T) {
	in := []domain.Review{{Rating: 5}, {Rating: 5}, {Rating: 1}, {Rating: 0}, {Rating: 3}}
	d := analytics.RatingDistribution(in)
	if d.Stars != [5]int{1, 0, 1, 0, 2} || d.Unrated != 1 || d.Max != 2 {
		t.Fatalf("unexpected distribution %+v", d)
	}
}
