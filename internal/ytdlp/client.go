package ytdlp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

// CommandClient shells out to the yt-dlp binary. One invocation of
// `yt-dlp -J` returns the whole video dump; metadata and track listing
// are separate calls so the duration ceiling can short-circuit before
// any subtitle work.
type CommandClient struct {
	binary string
}

func NewCommandClient(binary string) *CommandClient {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &CommandClient{binary: binary}
}

// CheckBinary verifies the configured yt-dlp executable is resolvable.
func (c *CommandClient) CheckBinary() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("yt-dlp binary not found (%s): %w", c.binary, err)
	}
	return nil
}

func (c *CommandClient) FetchMetadata(ctx context.Context, url string) (Metadata, error) {
	dump, err := c.dump(ctx, url)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Title:    dump.Title,
		ID:       dump.ID,
		Duration: dump.Duration,
		Uploader: dump.Uploader,
	}, nil
}

func (c *CommandClient) ListTracks(ctx context.Context, url string) (Tracks, error) {
	dump, err := c.dump(ctx, url)
	if err != nil {
		return Tracks{}, err
	}
	return Tracks{
		Manual:    dump.Subtitles,
		Automatic: dump.AutomaticCaptions,
	}, nil
}

func (c *CommandClient) dump(ctx context.Context, url string) (*videoDump, error) {
	args := []string{
		"--dump-single-json",
		"--skip-download",
		"--no-warnings",
		"--quiet",
		url,
	}

	cmd := exec.CommandContext(ctx, c.binary, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp failed for %s: %w", url, err)
	}

	jsonLine, err := extractJSONLine(string(out))
	if err != nil {
		return nil, err
	}

	var dump videoDump
	if err := json.Unmarshal([]byte(jsonLine), &dump); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp output: %w", err)
	}

	log.Debug("yt-dlp dump for %s: id=%s duration=%.0fs", url, dump.ID, dump.Duration)
	return &dump, nil
}

// extractJSONLine picks the JSON document out of mixed yt-dlp output;
// extractor plugins occasionally print notices on stdout even in quiet
// mode.
func extractJSONLine(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") {
			return line, nil
		}
	}
	return "", fmt.Errorf("no JSON found in yt-dlp output")
}
