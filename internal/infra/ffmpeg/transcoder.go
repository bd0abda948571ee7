package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Transcoder converts audio containers by shelling out to ffmpeg, which
// detects the source format itself. Every invocation works in its own
// temp directory, removed on all exit paths.
type Transcoder struct {
	binary string
}

func New(binary string) *Transcoder {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{binary: binary}
}

func (t *Transcoder) Transcode(ctx context.Context, data []byte, target string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "transcode-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out."+target)

	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing input: %w", err)
	}

	args := []string{"-hide_banner", "-loglevel", "error", "-y", "-i", in}
	if target == "wav" {
		// Recognizer feed: 16 kHz mono signed 16-bit PCM.
		args = append(args, "-ar", "16000", "-ac", "1", "-c:a", "pcm_s16le")
	}
	args = append(args, out)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}

	converted, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}
	return converted, nil
}
