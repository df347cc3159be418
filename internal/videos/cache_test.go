package videos

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	metadata Metadata
	err      error
	calls    int
}

func (s *stubProvider) Lookup(context.Context, string) (Metadata, error) {
	s.calls++
	if s.err != nil {
		return Metadata{}, s.err
	}
	return s.metadata, nil
}

func TestCachingProviderLookup(t *testing.T) {
	base := &stubProvider{metadata: Metadata{Duration: "02:00"}}
	cache := NewCachingProvider(base, time.Minute)

	ctx := context.Background()

	meta, err := cache.Lookup(ctx, "https://example.com/clip.mp4")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if meta.Duration != "02:00" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if base.calls != 1 {
		t.Fatalf("expected base called once got %d", base.calls)
	}

	if _, err := cache.Lookup(ctx, "https://example.com/clip.mp4"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected cached result got %d calls", base.calls)
	}

	if _, err := cache.Lookup(ctx, "https://example.com/other.mp4"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected distinct locations to miss, got %d calls", base.calls)
	}
}

func TestCachingProviderLookupErrors(t *testing.T) {
	cache := NewCachingProvider(nil, time.Minute)
	if _, err := cache.Lookup(context.Background(), "https://example.com/clip.mp4"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}

	base := &stubProvider{err: errors.New("probe failed")}
	cache = NewCachingProvider(base, time.Minute)

	if _, err := cache.Lookup(context.Background(), "https://example.com/clip.mp4"); err == nil {
		t.Fatal("expected error to pass through")
	}
	if _, err := cache.Lookup(context.Background(), "https://example.com/clip.mp4"); err == nil {
		t.Fatal("expected errors not to be cached")
	}
	if base.calls != 2 {
		t.Fatalf("expected base called twice got %d", base.calls)
	}
}
