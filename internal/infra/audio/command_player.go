// internal/infra/audio/command_player.go
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"bigben_scheduler/internal/domain/audio"

	"github.com/spf13/afero"
)

// maxPlayTime bounds a single chime; a hung player must not stall the scheduler loop.
const maxPlayTime = 2 * time.Minute

// runFunc runs a command to completion and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// CommandPlayer implements audio.Player by running an external player binary
// (gst-launch-1.0, ffplay, mpg123, afplay, ...) and waiting for it to exit.
type CommandPlayer struct {
	fs     afero.Fs
	binary string
	run    runFunc
}

func NewCommandPlayer(fs afero.Fs, binary string) *CommandPlayer {
	return &CommandPlayer{fs: fs, binary: binary, run: execRun}
}

// Play blocks until the sound has finished playing.
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	info, err := p.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", audio.ErrPlayback, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", audio.ErrPlayback, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", audio.ErrPlayback, path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, maxPlayTime)
	defer cancel()

	out, err := p.run(ctx, p.binary, PlayerArgs(p.binary, abs)...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%w: %s: %w: %s", audio.ErrPlayback, p.binary, err, msg)
		}
		return fmt.Errorf("%w: %s: %w", audio.ErrPlayback, p.binary, err)
	}
	return nil
}

// PlayerArgs builds the argument list that makes the given player play path once, headless.
func PlayerArgs(binary, path string) []string {
	switch filepath.Base(binary) {
	case "gst-launch-1.0":
		return []string{"-q", "playbin", "uri=file://" + filepath.ToSlash(path)}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
	case "mpg123":
		return []string{"-q", path}
	default:
		return []string{path}
	}
}
