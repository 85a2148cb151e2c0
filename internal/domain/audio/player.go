// internal/domain/audio/player.go
package audio

import (
	"context"
	"errors"
)

// ErrPlayback marks a sound that could not be loaded or played. It is never fatal.
var ErrPlayback = errors.New("playback failed")

// Player loads a sound file and plays it to completion.
type Player interface {
	Play(ctx context.Context, path string) error
}
