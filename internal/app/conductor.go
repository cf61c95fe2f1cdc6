package app

import (
	"context"
	"time"

	"github.com/coreman2200/funtimes-emotive/internal/catalog"
	"github.com/coreman2200/funtimes-emotive/internal/diagnostics"
)

// Run drives Step at fps until ctx is done. dt is measured from the wall
// clock so a slow frame is caught up on the next one.
func (c *Core) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()
	failing := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			_, err := c.Step(dt)
			switch {
			case err != nil && !failing:
				failing = true
				c.log.Warn().Err(err).Msg("driver write failed")
				c.mu.Lock()
				c.diag(diagnostics.New(diagnostics.Err, diagnostics.DriverError, "frame write failed").With("error", err.Error()))
				c.mu.Unlock()
			case err == nil && failing:
				failing = false
				c.log.Info().Msg("driver write recovered")
			}
		}
	}
}

// WatchCatalog reloads the catalog from path whenever it changes until
// ctx is done. Parse failures keep the current catalog.
func (c *Core) WatchCatalog(ctx context.Context, path string) error {
	w, err := catalog.NewWatcher(path, c.log.With().Str("component", "catalog").Logger())
	if err != nil {
		return err
	}
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case cat, ok := <-w.Updates:
				if !ok {
					return
				}
				c.SetCatalog(cat)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.mu.Lock()
				d := diagnostics.New(diagnostics.Warn, diagnostics.CatalogInvalid, "catalog reload failed")
				d.Detail = err.Error()
				d.SuggestedFixes = []string{"fix the catalog file; the previous catalog stays active"}
				c.diag(d)
				c.mu.Unlock()
			}
		}
	}()
	return nil
}
