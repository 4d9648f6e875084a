package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// AutoStrategy даёт пользователю Delay на то, чтобы поднести плащ к рамке,
// затем определяет цвет по следующему удачному кадру.
type AutoStrategy struct {
	Estimator     port.ColorEstimator
	SampleSize    int
	Delay         time.Duration
	FrameInterval time.Duration // шаг предпросмотра во время отсчёта
}

// NewAutoStrategy стратегия с отсчётом delay.
func NewAutoStrategy(estimator port.ColorEstimator, sampleSize int, delay time.Duration) *AutoStrategy {
	return &AutoStrategy{
		Estimator:     estimator,
		SampleSize:    sampleSize,
		Delay:         delay,
		FrameInterval: 30 * time.Millisecond,
	}
}

func (s *AutoStrategy) Acquire(ctx context.Context, feed port.Feed) (entity.ColorRange, error) {
	log.Println("Place the cloak in front of the camera to detect its color...")

	deadline := feed.Now().Add(s.Delay)
	for {
		now := feed.Now()
		left := deadline.Sub(now)
		if left <= 0 {
			break
		}

		frame, ok := feed.Next()
		if ok {
			feed.Show(frame, entity.Overlay{
				Lines:  []string{fmt.Sprintf("Hold the cloak in the box: %.0fs", math.Ceil(left.Seconds()))},
				Region: entity.CenterRegion(frame.Bounds(), s.SampleSize),
			})
		} else if feed.Exhausted() {
			return entity.ColorRange{}, ErrSourceExhausted
		}

		if feed.Signal() == entity.SignalExit {
			return entity.ColorRange{}, ErrExitRequested
		}

		if err := feed.Wait(ctx, min(s.FrameInterval, left)); err != nil {
			return entity.ColorRange{}, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return entity.ColorRange{}, err
		}

		frame, ok := feed.Next()
		if ok {
			return s.Estimator.Estimate(frame, entity.CenterRegion(frame.Bounds(), s.SampleSize))
		}
		if feed.Exhausted() {
			return entity.ColorRange{}, ErrSourceExhausted
		}
		log.Println("Error: could not capture frame for color detection, retrying")

		if feed.Signal() == entity.SignalExit {
			return entity.ColorRange{}, ErrExitRequested
		}
		if err := feed.Wait(ctx, s.FrameInterval); err != nil {
			return entity.ColorRange{}, err
		}
	}
}

// FixedStrategy заранее заданный диапазон, без выборки.
type FixedStrategy struct {
	Range entity.ColorRange
}

func (s *FixedStrategy) Acquire(_ context.Context, _ port.Feed) (entity.ColorRange, error) {
	if err := s.Range.Validate(); err != nil {
		return entity.ColorRange{}, err
	}
	log.Printf("Using fixed color range %s", s.Range)
	return s.Range, nil
}

// InteractiveStrategy показывает рамку выборки, пока пользователь не подаст команду захвата цвета.
type InteractiveStrategy struct {
	Estimator  port.ColorEstimator
	SampleSize int
	RetryDelay time.Duration
}

func (s *InteractiveStrategy) Acquire(ctx context.Context, feed port.Feed) (entity.ColorRange, error) {
	overlay := func(frame entity.Frame) entity.Overlay {
		return entity.Overlay{
			Lines:  []string{"Hold the cloak in the box", "Press C to capture the color"},
			Region: entity.CenterRegion(frame.Bounds(), s.SampleSize),
		}
	}

	for {
		frame, err := awaitSignal(ctx, feed, entity.SignalCaptureColor, overlay, s.RetryDelay)
		if err != nil {
			return entity.ColorRange{}, err
		}
		if frame.Empty() {
			log.Println("No frame captured yet, press C again")
			continue
		}
		return s.Estimator.Estimate(frame, entity.CenterRegion(frame.Bounds(), s.SampleSize))
	}
}

// awaitSignal выводит живое изображение, пока не придёт want, и возвращает последний прочитанный кадр.
func awaitSignal(ctx context.Context, feed port.Feed, want entity.Signal,
	overlay func(entity.Frame) entity.Overlay, retry time.Duration) (entity.Frame, error) {
	var last entity.Frame
	for {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		frame, ok := feed.Next()
		if ok {
			last = frame
			feed.Show(frame, overlay(frame))
		} else if feed.Exhausted() {
			return last, ErrSourceExhausted
		}

		switch feed.Signal() {
		case want:
			return last, nil
		case entity.SignalExit:
			return last, ErrExitRequested
		}

		if !ok {
			if err := feed.Wait(ctx, retry); err != nil {
				return last, err
			}
		}
	}
}

var (
	_ port.ColorRangeStrategy = (*AutoStrategy)(nil)
	_ port.ColorRangeStrategy = (*FixedStrategy)(nil)
	_ port.ColorRangeStrategy = (*InteractiveStrategy)(nil)
)
