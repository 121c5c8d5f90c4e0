package pkg

import (
	"context"
	"time"

	"github.com/go-errors/errors"

	"github.com/kubesail/pibox-epaper/mono"
)

// Show opens a panel and runs one display cycle: init, clear, transfer the
// canvas, hold it for pause, then sleep.
//
// A panel I/O failure aborts the cycle without putting the panel to sleep.
// Cancelling ctx once the panel is open, including while a step waits on the
// panel, sleeps it and returns ErrInterrupted. Cancelling before that returns
// the context error.
func Show(ctx context.Context, open func() (Panel, error), canvas *mono.Image, pause time.Duration) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, 0)
	}
	p, err := open()
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"init", p.Init},
		{"clear", p.Clear},
		{"transfer", func(ctx context.Context) error { return p.Transfer(ctx, canvas) }},
	}
	for _, s := range steps {
		if ctx.Err() != nil {
			return interrupted(p)
		}
		logDebug("show step", "step", s.name)
		if err := s.fn(ctx); err != nil {
			if ctx.Err() != nil {
				logDebug("step cancelled", "step", s.name, "err", err)
				return interrupted(p)
			}
			return err
		}
	}

	t := time.NewTimer(pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return interrupted(p)
	case <-t.C:
	}
	return p.Sleep()
}

func interrupted(p Panel) error {
	if err := p.Sleep(); err != nil {
		logWarn("sleep after interrupt", "err", err)
	}
	return ErrInterrupted
}
