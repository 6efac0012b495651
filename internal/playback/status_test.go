package playback

import (
	"testing"
	"time"
)

func TestPercent(t *testing.T) {
	tc := []struct {
		name       string
		progressMs int
		durationMs int
		want       float64
	}{
		{"zero duration guards division", 5000, 0, 0},
		{"negative duration", 5000, -1, 0},
		{"start of track", 0, 180000, 0},
		{"spec example", 65000, 180000, 36.11111111111111},
		{"end of track", 180000, 180000, 100},
		{"overrun clamps to 100", 185000, 180000, 100},
		{"negative progress clamps to 0", -100, 180000, 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Percent(tt.progressMs, tt.durationMs)
			if got != tt.want {
				t.Errorf("Percent(%d, %d) = %v, want %v", tt.progressMs, tt.durationMs, got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("Percent(%d, %d) = %v out of [0,100]", tt.progressMs, tt.durationMs, got)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{"spec position", 65000, "1:05"},
		{"spec duration", 180000, "3:00"},
		{"zero", 0, "0:00"},
		{"negative clamps", -500, "0:00"},
		{"sub-second truncates", 999, "0:00"},
		{"over ten minutes", 754000, "12:34"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.ms); got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.ms, got, tt.want)
			}
		})
	}
}

func TestFormatClockPair(t *testing.T) {
	if got := FormatClockPair(65000, 180000); got != "1:05 / 3:00" {
		t.Errorf("FormatClockPair(65000, 180000) = %q, want %q", got, "1:05 / 3:00")
	}
}

func TestRelativeSince(t *testing.T) {
	tc := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"under a minute", 30 * time.Second, "just now"},
		{"fifty nine seconds", 59 * time.Second, "just now"},
		{"one minute", time.Minute, "1 minute ago"},
		{"plural minutes", 5 * time.Minute, "5 minutes ago"},
		{"one hour", time.Hour, "1 hour ago"},
		{"plural hours", 90 * time.Minute, "1 hour ago"},
		{"many hours", 5 * time.Hour, "5 hours ago"},
		{"one day", 24 * time.Hour, "1 day ago"},
		{"plural days", 72 * time.Hour, "3 days ago"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeSince(tt.d); got != tt.want {
				t.Errorf("RelativeSince(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestStatusPercent(t *testing.T) {
	status := Status{IsPlaying: true, ProgressMs: 65000, DurationMs: 180000}
	if got := status.Percent(); int(got) != 36 {
		t.Errorf("expected 36%%, got %v", got)
	}
}

func TestArtistNames(t *testing.T) {
	track := Track{Artists: []Artist{{Name: "Alpha"}, {Name: "Beta"}}}
	if got := track.ArtistNames(); got != "Alpha, Beta" {
		t.Errorf("ArtistNames() = %q, want %q", got, "Alpha, Beta")
	}

	if got := (Track{}).ArtistNames(); got != "" {
		t.Errorf("expected empty artist list to render empty, got %q", got)
	}
}
