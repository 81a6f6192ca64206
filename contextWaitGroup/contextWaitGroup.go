package contextWaitGroup

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/rs/zerolog"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "CWG").Logger()

// CWG runs named loops sharing one context.
type CWG struct {
	sync.WaitGroup
	Ctx    context.Context
	Cancel context.CancelFunc
}

func New(parent context.Context) *CWG {
	ctx, cancel := context.WithCancel(parent)
	return &CWG{Ctx: ctx, Cancel: cancel}
}

func (c *CWG) WithSignal(signals ...os.Signal) (stop context.CancelFunc) {
	c.Ctx, stop = signal.NotifyContext(c.Ctx, signals...)
	return
}

// Go runs f until it returns. A non-nil error is logged.
func (c *CWG) Go(name string, f func(context.Context) error) {
	c.WaitGroup.Go(func() {
		c.run(name, f)
	})
}

// GoCritical is Go, but the whole group is cancelled once f returns.
func (c *CWG) GoCritical(name string, f func(context.Context) error) {
	c.WaitGroup.Go(func() {
		defer c.Cancel()
		c.run(name, f)
	})
}

func (c *CWG) run(name string, f func(context.Context) error) {
	log.Trace().Str("loop", name).Msg("started")
	err := f(c.Ctx)
	switch {
	case err != nil:
		log.Error().Err(err).Str("loop", name).Msg("loop failed")
	default:
		log.Trace().Str("loop", name).Msg("stopped")
	}
}
