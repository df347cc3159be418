package videos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/reelvault/backend/internal/logging"
)

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// FFProbeProvider inspects media files using the ffprobe CLI tool.
type FFProbeProvider struct {
	Binary  string
	Args    []string
	Run     CommandRunner
	Timeout time.Duration
}

// NewFFProbeProvider constructs a Provider that shells out to ffprobe.
func NewFFProbeProvider(binary string, timeout time.Duration) *FFProbeProvider {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFProbeProvider{
		Binary:  binary,
		Args:    []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams"},
		Run:     defaultCommandRunner,
		Timeout: timeout,
	}
}

// Lookup executes ffprobe for the provided location and parses the JSON response.
func (p *FFProbeProvider) Lookup(ctx context.Context, location string) (Metadata, error) {
	if p == nil {
		return Metadata{}, ErrProviderUnavailable
	}
	if p.Run == nil {
		p.Run = defaultCommandRunner
	}

	ctx, span := logging.StartSpan(ctx, "ffprobe.lookup")
	defer span.End()

	execCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	args := append([]string{}, p.Args...)
	args = append(args, location)

	out, err := p.Run(execCtx, p.Binary, args...)
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe fetch: %w", err)
	}

	var payload struct {
		Format struct {
			Duration   string `json:"duration"`
			FormatName string `json:"format_name"`
			Size       string `json:"size"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe response: %w", err)
	}

	if payload.Format.Duration == "" && len(payload.Streams) == 0 {
		return Metadata{}, errors.New("ffprobe returned empty metadata")
	}

	meta := Metadata{Format: payload.Format.FormatName}

	if seconds, err := strconv.ParseFloat(payload.Format.Duration, 64); err == nil {
		meta.Duration = formatDuration(seconds)
	}
	if size, err := strconv.ParseInt(payload.Format.Size, 10, 64); err == nil {
		meta.Size = size
	}

	for _, stream := range payload.Streams {
		if stream.CodecType == "video" {
			meta.Width = stream.Width
			meta.Height = stream.Height
			break
		}
	}

	return meta, nil
}

// formatDuration renders seconds as MM:SS, or HH:MM:SS past an hour.
func formatDuration(seconds float64) string {
	total := int(seconds + 0.5)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
