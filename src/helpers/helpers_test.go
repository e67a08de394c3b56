package helpers

import (
	"context"
	"errors"
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

func TestFormatScaled(t *testing.T) {
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{ptr(999), "$999.00"},
		{ptr(1234), "$1.23K"},
		{ptr(4.5e6), "$4.50M"},
		{ptr(2.3e9), "$2.30B"},
		{ptr(1.5e12), "$1.50T"},
		{ptr(-4.5e6), "-$4.50M"},
	}
	for _, tt := range tests {
		if got := FormatScaled(tt.in, "$"); got != tt.want {
			t.Errorf("FormatScaled(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentAndCount(t *testing.T) {
	if got := FormatPercent(ptr(2.345)); got != "+2.35%" && got != "+2.34%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(ptr(-1.5)); got != "-1.50%" {
		t.Errorf("FormatPercent negative = %q", got)
	}
	if got := FormatPercent(nil); got != "N/A" {
		t.Errorf("FormatPercent(nil) = %q", got)
	}
	if got := FormatCount(ptr(1234567.4)); got != "1,234,567" {
		t.Errorf("FormatCount = %q", got)
	}
}

func TestRetryWithBackoffSucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), nil, "op", 3, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 || calls != 3 {
		t.Fatalf("got %d after %d calls, want 42 after 3", got, calls)
	}
}

func TestRetryWithBackoffExhausts(t *testing.T) {
	base := errors.New("down")
	calls := 0
	_, err := RetryWithBackoff(context.Background(), nil, "op", 2, time.Millisecond, func(ctx context.Context) (string, error) {
		calls++
		return "", base
	})
	if !errors.Is(err, base) {
		t.Fatalf("error %v does not wrap the last failure", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoffPermanent(t *testing.T) {
	base := errors.New("bad request")
	calls := 0
	_, err := RetryWithBackoff(context.Background(), nil, "op", 5, time.Millisecond, func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(base)
	})
	if err != base {
		t.Fatalf("err = %v, want the unwrapped permanent cause", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoffContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryWithBackoff(ctx, nil, "op", 3, time.Hour, func(ctx context.Context) (int, error) {
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")
	var err error = NewFetchError("fetch dashboard", cause)
	if !IsFetchError(err) {
		t.Fatal("FetchError not recognised")
	}
	if !errors.Is(err, cause) {
		t.Fatal("FetchError does not unwrap to its cause")
	}
	if err.Error() != "fetch dashboard: connection refused" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if IsValidationError(err) {
		t.Fatal("FetchError reported as validation error")
	}
	if !IsValidationError(NewValidationError("top_n %d out of range", 3)) {
		t.Fatal("ValidationError not recognised")
	}
	if !IsFetchError(NewDecodeError("decode", cause)) {
		t.Fatal("DecodeError should count as a fetch failure")
	}
}

func TestProxyManager(t *testing.T) {
	pm := NewProxyManager([]string{"10.0.0.1:8080", "", "http://10.0.0.2:3128"}, "", nil)
	if !pm.HasProxies() {
		t.Fatal("expected proxies")
	}
	first, _ := pm.GetCurrentProxy()
	if first != "http://10.0.0.1:8080" {
		t.Fatalf("first proxy = %q", first)
	}
	pm.RotateProxy()
	second, _ := pm.GetCurrentProxy()
	if second != "http://10.0.0.2:3128" {
		t.Fatalf("rotated proxy = %q", second)
	}

	fixed := NewProxyManager(nil, "macro-observer/1.0", nil)
	if fixed.HasProxies() {
		t.Fatal("expected no proxies")
	}
	if ua := fixed.GetUserAgent(); ua != "macro-observer/1.0" {
		t.Fatalf("user agent = %q", ua)
	}
}
