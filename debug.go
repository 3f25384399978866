package celeste

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// globalDebug mirrors the most recently set Game debug flag so that pool,
// transform and component operations (which lack a Game pointer) can check it
// cheaply. Only valid with a single Game; multiple Games with differing debug
// modes reflect whichever called SetDebugMode last.
var globalDebug bool

// SetDebugMode sets the process-wide debug flag. Game.SetDebugMode calls it.
func SetDebugMode(enabled bool) { globalDebug = enabled }

// IsDebugMode reports the process-wide debug flag.
func IsDebugMode() bool { return globalDebug }

// debugLog receives release-mode assertion warnings. NewGame points it at the
// game's logger.
var debugLog = zap.NewNop()

// debugFail reports a programmer error. In debug mode it panics; otherwise it
// logs a warning and the caller continues with a safe no-op.
func debugFail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if globalDebug {
		panic("celeste: " + msg)
	}
	debugLog.Warn("assertion failed", zap.String("detail", msg))
}

// frameStats holds per-frame timing metrics. Only populated in debug mode.
type frameStats struct {
	inputTime    time.Duration
	updateTime   time.Duration
	renderTime   time.Duration
	commandCount int
	objectCount  int
}

// logFrame writes frame stats at debug level.
func (g *Game) logFrame(stats frameStats) {
	if !globalDebug {
		return
	}
	g.log.Debug("frame",
		zap.Duration("input", stats.inputTime),
		zap.Duration("update", stats.updateTime),
		zap.Duration("render", stats.renderTime),
		zap.Int("commands", stats.commandCount),
		zap.Int("objects", stats.objectCount),
	)
}

// debugCheckTreeDepth warns if a transform chain exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(t *Transform) {
	depth := 0
	for p := t; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLog.Warn("transform tree too deep",
			zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}
