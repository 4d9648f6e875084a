package vision

import (
	"context"
	"fmt"
	"log"
	"slices"
	"time"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/timeutil"
)

// BackgroundModel строит фон как медиану серии кадров.
type BackgroundModel struct {
	Interval time.Duration // пауза между кадрами серии
	Clock    timeutil.Clock
}

// NewBackgroundModel создаёт модель фона с заданной паузой между кадрами.
func NewBackgroundModel(interval time.Duration, clock timeutil.Clock) *BackgroundModel {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &BackgroundModel{Interval: interval, Clock: clock}
}

// Build читает до count кадров, пропуская неудачные, и возвращает их поканальную медиану.
func (m *BackgroundModel) Build(ctx context.Context, source port.FrameSource, count int) (entity.Frame, error) {
	log.Printf("Capturing background from %d frames, please keep out of the picture", count)

	frames := make([]entity.Frame, 0, count)
	for i := 0; i < count; i++ {
		if i > 0 {
			if err := m.Clock.Sleep(ctx, m.Interval); err != nil {
				return entity.Frame{}, err
			}
		} else if err := ctx.Err(); err != nil {
			return entity.Frame{}, err
		}

		frame, ok := source.Read()
		switch {
		case !ok || frame.Empty():
			log.Printf("Warning: could not capture background frame %d/%d", i+1, count)
		case len(frames) > 0 && !frame.SameSize(frames[0]):
			log.Printf("Warning: background frame %d/%d is %dx%d, expected %dx%d, skipped",
				i+1, count, frame.Width(), frame.Height(), frames[0].Width(), frames[0].Height())
		default:
			frames = append(frames, frame)
		}
	}

	if len(frames) == 0 {
		return entity.Frame{}, fmt.Errorf("build background from %d frames: %w", count, entity.ErrInsufficientSamples)
	}

	log.Printf("Background captured from %d/%d frames", len(frames), count)
	return MedianFrame(frames), nil
}

// MedianFrame поканальная медиана кадров одного размера.
// Для чётного числа кадров берётся среднее двух центральных значений с отбрасыванием дроби.
func MedianFrame(frames []entity.Frame) entity.Frame {
	w, h := frames[0].Width(), frames[0].Height()
	out := entity.NewFrame(w, h)

	rs := make([]uint8, len(frames))
	gs := make([]uint8, len(frames))
	bs := make([]uint8, len(frames))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for i, f := range frames {
				rs[i], gs[i], bs[i] = f.RGB(x, y)
			}
			out.SetRGB(x, y, median(rs), median(gs), median(bs))
		}
	}
	return out
}

// median сортирует буфер на месте.
func median(vals []uint8) uint8 {
	slices.Sort(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return uint8((int(vals[mid-1]) + int(vals[mid])) / 2)
}

var _ port.BackgroundBuilder = (*BackgroundModel)(nil)
