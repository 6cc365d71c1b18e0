package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/orbitads/orbit/backend/internal/logger"
)

// Preview and thumbnail output parameters. The preview is bounded to a
// small frame and bitrate so it starts playing quickly in review tools;
// faststart moves the moov atom up front for progressive playback.
const (
	previewMaxWidth   = 640
	previewMaxHeight  = 360
	previewVideoRate  = "500k"
	previewAudioRate  = "64k"
	thumbnailWidth    = 320
	thumbnailHeight   = 180
	thumbnailPosition = 0.1 // fraction of source duration
)

// Service wraps the external ffmpeg/ffprobe tools
type Service struct {
	config *Config
	logger logger.Logger
}

// Config represents transcoder tool configuration
type Config struct {
	Path      string // ffmpeg binary
	ProbePath string // ffprobe binary
	Preset    string // encoding preset, e.g. veryfast
	CRF       int    // quality factor, higher = smaller
}

// NewService creates a new transcoder service
func NewService(config *Config, logger logger.Logger) *Service {
	if config.Path == "" {
		config.Path = "ffmpeg"
	}
	if config.ProbePath == "" {
		config.ProbePath = "ffprobe"
	}
	if config.Preset == "" {
		config.Preset = "veryfast"
	}
	if config.CRF == 0 {
		config.CRF = 28
	}
	return &Service{config: config, logger: logger}
}

// Duration returns the media duration in seconds, or 0 when the container
// carries no usable duration metadata.
func (s *Service) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.config.ProbePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed for %s: %w, stderr: %s", path, err, stderr.String())
	}

	raw := strings.TrimSpace(stdout.String())
	if raw == "" || raw == "N/A" {
		return 0, nil
	}

	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", raw, err)
	}
	return duration, nil
}

// GeneratePreview re-encodes input into a bounded low-bitrate clip,
// reporting completion percentages through onProgress.
func (s *Service) GeneratePreview(ctx context.Context, inputPath, outputPath string, onProgress func(percent int)) error {
	duration, err := s.Duration(ctx, inputPath)
	if err != nil {
		s.logger.LogWarn("Could not determine source duration, preview progress disabled", map[string]interface{}{
			"input": inputPath,
			"error": err.Error(),
		})
		duration = 0
	}

	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease",
		previewMaxWidth, previewMaxHeight)

	cmd := exec.CommandContext(ctx, s.config.Path,
		"-i", inputPath,
		"-vf", scale,
		"-c:v", "libx264",
		"-preset", s.config.Preset,
		"-crf", strconv.Itoa(s.config.CRF),
		"-b:v", previewVideoRate,
		"-c:a", "aac",
		"-b:a", previewAudioRate,
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start preview transcode: %w", err)
	}

	s.logger.LogInfo("Preview transcode started", map[string]interface{}{
		"input":  inputPath,
		"output": outputPath,
		"pid":    cmd.Process.Pid,
	})

	// Drain the -progress stream, translating out_time into percentages.
	// Values are clamped and monotonic so per-stage progress never steps
	// backwards at the subscriber.
	last := -1
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		pct, ok := parseProgressLine(scanner.Text(), duration)
		if !ok || pct <= last {
			continue
		}
		last = pct
		if onProgress != nil {
			onProgress(pct)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("preview transcode failed: %w, stderr: %s", err, tail(stderr.String()))
	}

	if err := verifyOutput(outputPath); err != nil {
		return err
	}

	if onProgress != nil && last < 100 {
		onProgress(100)
	}

	s.logger.LogInfo("Preview transcode completed", map[string]interface{}{
		"input":  inputPath,
		"output": outputPath,
	})

	return nil
}

// GenerateThumbnail extracts a single still frame scaled to the thumbnail
// size. The frame is taken at 10% of the source duration; when the
// duration is unknown or zero the first available frame is used instead.
func (s *Service) GenerateThumbnail(ctx context.Context, inputPath, outputPath string) error {
	duration, err := s.Duration(ctx, inputPath)
	if err != nil {
		duration = 0
	}

	offset := ThumbnailOffset(duration)

	cmd := exec.CommandContext(ctx, s.config.Path,
		"-ss", strconv.FormatFloat(offset, 'f', 3, 64),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", thumbnailWidth, thumbnailHeight),
		"-y",
		outputPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("thumbnail extraction failed: %w, stderr: %s", err, tail(stderr.String()))
	}

	if err := verifyOutput(outputPath); err != nil {
		return err
	}

	s.logger.LogInfo("Thumbnail extracted", map[string]interface{}{
		"input":  inputPath,
		"output": outputPath,
		"offset": offset,
	})

	return nil
}

// ThumbnailOffset returns the frame timestamp for a source of the given
// duration, clamping to the first frame for zero or unknown durations.
func ThumbnailOffset(duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	return duration * thumbnailPosition
}

// parseProgressLine extracts a completion percentage from one line of
// ffmpeg -progress output. Returns ok=false for lines that carry no
// usable position or when the total duration is unknown.
func parseProgressLine(line string, duration float64) (int, bool) {
	if duration <= 0 {
		return 0, false
	}

	value, found := strings.CutPrefix(strings.TrimSpace(line), "out_time_ms=")
	if !found {
		return 0, false
	}

	// out_time_ms is in microseconds despite the name
	us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}

	pct := int(float64(us) / (duration * 1e6) * 100)
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// verifyOutput checks that the tool actually produced a usable file
func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("transcoded file not found: %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("transcoded file is empty: %s", path)
	}
	return nil
}

// tail returns the last portion of ffmpeg stderr, which is where the
// actual failure reason lives
func tail(s string) string {
	const max = 512
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
