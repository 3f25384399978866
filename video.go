package celeste

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"go.uber.org/zap"
)

// VideoSettings controls external video playback.
type VideoSettings struct {
	AutoExit   bool    // close the player when the video ends
	Volume     float64 // 0.0-1.0
	OnComplete func(err error)
}

type videoResult struct {
	path string
	err  error
	done func(err error)
}

// videoArgs builds the ffplay-compatible argument list.
func videoArgs(path string, vs VideoSettings) []string {
	args := []string{path}
	if vs.AutoExit {
		args = append(args, "-autoexit")
	}
	vol := int(clamp(vs.Volume, 0, 1) * 100)
	return append(args, "-volume", strconv.Itoa(vol))
}

// PlayVideo runs player on path and blocks until it exits or ctx is done.
func PlayVideo(ctx context.Context, player, path string, vs VideoSettings) error {
	bin, err := exec.LookPath(player)
	if err != nil {
		return fmt.Errorf("find video player %s: %w", player, err)
	}
	cmd := exec.CommandContext(ctx, bin, videoArgs(path, vs)...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play video %s: %w", path, err)
	}
	return nil
}

// PlayVideo plays path with the configured player and calls vs.OnComplete
// when it finishes.
func (g *Game) PlayVideo(path string, vs VideoSettings) error {
	err := PlayVideo(g.ctx, g.cfg.Game.VideoPlayer, path, vs)
	if vs.OnComplete != nil {
		vs.OnComplete(err)
	}
	return err
}

// PlayVideoAsync plays path in the background. vs.OnComplete runs on the
// game goroutine during the Update after playback ends. Close stops the
// player.
func (g *Game) PlayVideoAsync(path string, vs VideoSettings) {
	player := g.cfg.Game.VideoPlayer
	go func() {
		err := PlayVideo(g.ctx, player, path, vs)
		select {
		case g.videoCh <- videoResult{path: path, err: err, done: vs.OnComplete}:
		case <-g.ctx.Done():
		}
	}()
}

func (g *Game) drainVideos() {
	for {
		select {
		case r := <-g.videoCh:
			if r.err != nil {
				g.log.Warn("video playback failed", zap.String("path", r.path), zap.Error(r.err))
			}
			if r.done != nil {
				r.done(r.err)
			}
		default:
			return
		}
	}
}
