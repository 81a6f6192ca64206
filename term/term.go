// Package term renders readings as a line chart in the terminal.
package term

import (
	"context"
	"math"
	"os"
	"slices"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/termbox"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/linechart"
	"github.com/rs/zerolog"

	"github.com/Miuzarte/FpsOverlay/fps"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}).
	With().Timestamp().Str("module", "Term").Logger()

const historyLength = fps.WindowCapacity

// Sink forwards readings to Run without ever blocking the sampler.
type Sink struct {
	ch chan fps.Reading
}

func NewSink() *Sink {
	return &Sink{ch: make(chan fps.Reading, 64)}
}

func (s *Sink) Render(r fps.Reading) {
	select {
	case s.ch <- r:
	default:
	}
}

// history keeps the last historyLength points of each series. A 1% low that
// is not available yet is stored as NaN so the chart leaves a gap.
type history struct {
	fps, low []float64
}

func (h *history) push(r fps.Reading) {
	low := math.NaN()
	if r.Low1Ready {
		low = float64(r.Low1)
	}
	h.fps = appendBounded(h.fps, float64(r.FPS))
	h.low = appendBounded(h.low, low)
}

func appendBounded(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyLength {
		s = slices.Delete(s, 0, len(s)-historyLength)
	}
	return s
}

// Run draws readings from sink until ctx is done or q/Esc is pressed.
func Run(ctx context.Context, sink *Sink, title string) error {
	lc, err := linechart.New(linechart.AxesCellOpts(cell.FgColor(cell.ColorWhite)))
	if err != nil {
		return err
	}

	t, err := termbox.New()
	if err != nil {
		return err
	}
	defer t.Close()

	cont, err := container.New(
		t,
		container.Border(linestyle.Light),
		container.BorderTitle(title),
		container.PlaceWidget(lc),
	)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		var h history
		for {
			select {
			case <-runCtx.Done():
				return
			case r := <-sink.ch:
				h.push(r)
				if err := lc.Series("fps", slices.Clone(h.fps),
					linechart.SeriesCellOpts(cell.FgColor(cell.ColorGreen)),
				); err != nil {
					log.Debug().Err(err).Msg("failed to update fps series")
				}
				if err := lc.Series("1% low", slices.Clone(h.low),
					linechart.SeriesCellOpts(cell.FgColor(cell.ColorRed)),
				); err != nil {
					log.Debug().Err(err).Msg("failed to update low series")
				}
			}
		}
	}()

	kbSub := func(k *terminalapi.Keyboard) {
		switch k.Key {
		case 'q', 'Q':
			cancel()
		case keyboard.KeyCtrlC, keyboard.KeyEsc:
			cancel()
		}
	}

	return termdash.Run(runCtx, t, cont, termdash.KeyboardSubscriber(kbSub))
}
