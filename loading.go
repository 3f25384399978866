package celeste

import "go.uber.org/zap"

// LoadResourcesAsyncScript runs Load on its first update, then fires
// LoadComplete once, drops every subscriber and deactivates itself. A failed
// Load is logged and LoadComplete still fires.
type LoadResourcesAsyncScript struct {
	ComponentBase

	Load         func(g *Game) error
	LoadComplete Signal
}

// Reset implements Resetter.
func (l *LoadResourcesAsyncScript) Reset() {
	l.Load = nil
}

func (l *LoadResourcesAsyncScript) Update(dt float64) {
	l.ComponentBase.Update(dt)
	if l.Load != nil {
		if game := l.Game(); game != nil {
			if err := l.Load(game); err != nil {
				game.log.Warn("resource load failed", zap.Error(err))
			}
		}
	}
	l.LoadComplete.Invoke()
	l.LoadComplete.UnsubscribeAll()
	l.SetActive(false)
}
