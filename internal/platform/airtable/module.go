package airtable

import (
	"context"
	"time"

	"go.uber.org/fx"
)

// runJanitor sweeps expired OAuth states in the background for the
// lifetime of the app.
func runJanitor(lc fx.Lifecycle, states *StateStore) {
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(time.Minute)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						states.Sweep()
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewStateStore),
	fx.Provide(NewOAuth),
	fx.Invoke(runJanitor),
)
