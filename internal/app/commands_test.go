package app_test

import (
	"context"
	"errors"
	"testing"

	"appinsight/internal/app"
	"appinsight/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	platform  domain.Platform
	meta      domain.AppMetadata
	byCountry map[string][]domain.Review
	err       error
	calls     []string
}

func (f *fakeSource) Platform() domain.Platform { return f.platform }

func (f *fakeSource) Acquire(ctx context.Context, appID, country string) (domain.AppMetadata, []domain.Review, error) {
	f.calls = append(f.calls, "acquire:"+country)
	if f.err != nil {
		return domain.AppMetadata{}, nil, f.err
	}
	m := f.meta
	m.Country = country
	return m, f.byCountry[country], nil
}

func (f *fakeSource) Reviews(ctx context.Context, appID, country string) ([]domain.Review, error) {
	f.calls = append(f.calls, "reviews:"+country)
	return f.byCountry[country], nil
}

func some(n, rating int) []domain.Review {
	out := make([]domain.Review, n)
	for i := range out {
		out[i] = domain.Review{Author: "u", Rating: rating, Content: "ok"}
	}
	return out
}

// ---- tests ----

func TestAcquire_UsesLinkCountryAndPlatform(t *testing.T) {
	ios := &fakeSource{platform: domain.PlatformIOS, meta: domain.AppMetadata{Name: "A"}, byCountry: map[string][]domain.Review{"de": some(3, 5)}}
	android := &fakeSource{platform: domain.PlatformAndroid}
	svc := app.NewAcquisitionService("tr", "us", ios, android)

	store, err := svc.Acquire(context.Background(), "https://apps.apple.com/de/app/a/id123", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.Len() != 3 || store.ReviewCountry() != "de" || store.Metadata().Name != "A" {
		t.Fatalf("unexpected store: %d %s %+v", store.Len(), store.ReviewCountry(), store.Metadata())
	}
	if len(android.calls) != 0 {
		t.Fatalf("android source must not be used")
	}
}

func TestAcquire_CountryFallback(t *testing.T) {
	src := &fakeSource{platform: domain.PlatformIOS, byCountry: map[string][]domain.Review{"us": some(2, 4)}}
	svc := app.NewAcquisitionService("tr", "us", src)

	store, err := svc.Acquire(context.Background(), "123", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.Len() != 2 || store.ReviewCountry() != "us" {
		t.Fatalf("expected fallback reviews, got %d from %s", store.Len(), store.ReviewCountry())
	}
	if store.Metadata().Country != "tr" {
		t.Fatalf("metadata should stay on the chosen storefront, got %s", store.Metadata().Country)
	}
	if len(src.calls) != 2 || src.calls[1] != "reviews:us" {
		t.Fatalf("unexpected calls %v", src.calls)
	}
}

func TestAcquire_NoFallbackWhenAlreadyFallbackCountry(t *testing.T) {
	src := &fakeSource{platform: domain.PlatformIOS}
	svc := app.NewAcquisitionService("us", "us", src)

	store, err := svc.Acquire(context.Background(), "123", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if store.Len() != 0 || len(src.calls) != 1 {
		t.Fatalf("expected a single empty acquisition, got %d reviews, calls %v", store.Len(), src.calls)
	}
}

func TestAcquire_Errors(t *testing.T) {
	src := &fakeSource{platform: domain.PlatformIOS, err: &domain.RelayExhaustedError{Target: "x"}}
	svc := app.NewAcquisitionService("tr", "us", src)

	if _, err := svc.Acquire(context.Background(), "https://example.com/nothing", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Acquire(context.Background(), "123", "turkey"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad country, got %v", err)
	}
	if _, err := svc.Acquire(context.Background(), "com.example.app", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without android source, got %v", err)
	}
	if _, err := svc.Acquire(context.Background(), "123", ""); !errors.Is(err, domain.ErrRelayExhausted) {
		t.Fatalf("expected ErrRelayExhausted, got %v", err)
	}
}
