package videos

import (
	"context"
	"testing"
	"time"
)

func TestFFProbeProviderLookup(t *testing.T) {
	provider := NewFFProbeProvider("ffprobe", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		wantArgs := []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "https://example.com/clip.mp4"}
		if len(args) != len(wantArgs) {
			t.Fatalf("unexpected args length: got %d want %d", len(args), len(wantArgs))
		}
		for i, arg := range wantArgs {
			if args[i] != arg {
				t.Fatalf("unexpected arg at %d: got %q want %q", i, args[i], arg)
			}
		}
		return []byte(`{
                        "format": {"duration": "212.4", "format_name": "mov,mp4", "size": "1048576"},
                        "streams": [
                                {"codec_type": "audio"},
                                {"codec_type": "video", "width": 1920, "height": 1080}
                        ]
                }`), nil
	}

	meta, err := provider.Lookup(context.Background(), "https://example.com/clip.mp4")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if meta.Duration != "03:32" {
		t.Fatalf("unexpected duration %q", meta.Duration)
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Fatalf("unexpected dimensions %dx%d", meta.Width, meta.Height)
	}
	if meta.Size != 1048576 {
		t.Fatalf("unexpected size %d", meta.Size)
	}
	if meta.Format != "mov,mp4" {
		t.Fatalf("unexpected format %q", meta.Format)
	}
}

func TestFFProbeProviderLookupEmptyPayload(t *testing.T) {
	provider := NewFFProbeProvider("ffprobe", time.Second)
	provider.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte(`{"format":{},"streams":[]}`), nil
	}

	if _, err := provider.Lookup(context.Background(), "https://example.com/clip.mp4"); err == nil {
		t.Fatal("expected error for empty metadata")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00"},
		{59.4, "00:59"},
		{75, "01:15"},
		{3600, "01:00:00"},
		{3725, "01:02:05"},
	}

	for _, tc := range cases {
		if got := formatDuration(tc.seconds); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
