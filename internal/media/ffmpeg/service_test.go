package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProgressLine(t *testing.T) {
	duration := 10.0 // seconds

	cases := []struct {
		name    string
		line    string
		wantPct int
		wantOK  bool
	}{
		{"half way", "out_time_ms=5000000", 50, true},
		{"start", "out_time_ms=0", 0, true},
		{"complete", "out_time_ms=10000000", 100, true},
		{"past the end clamps", "out_time_ms=15000000", 100, true},
		{"leading whitespace", "  out_time_ms=5000000", 50, true},
		{"other key", "frame=120", 0, false},
		{"garbage value", "out_time_ms=N/A", 0, false},
		{"negative value", "out_time_ms=-100", 0, false},
		{"empty line", "", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pct, ok := parseProgressLine(tc.line, duration)
			assert.Equal(t, tc.wantOK, ok)
			if ok {
				assert.Equal(t, tc.wantPct, pct)
			}
		})
	}
}

func TestParseProgressLineUnknownDuration(t *testing.T) {
	_, ok := parseProgressLine("out_time_ms=5000000", 0)
	assert.False(t, ok)

	_, ok = parseProgressLine("out_time_ms=5000000", -1)
	assert.False(t, ok)
}

func TestThumbnailOffset(t *testing.T) {
	assert.InDelta(t, 12.0, ThumbnailOffset(120), 1e-9)
	assert.InDelta(t, 0.05, ThumbnailOffset(0.5), 1e-9)
	assert.Equal(t, 0.0, ThumbnailOffset(0))
	assert.Equal(t, 0.0, ThumbnailOffset(-3))
}

func TestNewServiceDefaults(t *testing.T) {
	s := NewService(&Config{}, nil)
	assert.Equal(t, "ffmpeg", s.config.Path)
	assert.Equal(t, "ffprobe", s.config.ProbePath)
	assert.Equal(t, "veryfast", s.config.Preset)
	assert.Equal(t, 28, s.config.CRF)
}
