package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/timeutil"
)

var (
	// ErrExitRequested пользователь завершил сессию до основного цикла.
	ErrExitRequested = errors.New("exit requested")
	// ErrSourceExhausted кадры источника закончились до начала основного цикла.
	ErrSourceExhausted = errors.New("frame source exhausted")
)

// PipelineConfig параметры сессии
type PipelineConfig struct {
	BackgroundFrames     int           // число кадров для медианы фона
	WaitBackgroundSignal bool          // ждать команды перед захватом фона
	RetryDelay           time.Duration // пауза после неудачного чтения кадра
	ShowMask             bool          // выводить маску в отдельное окно
}

// DefaultPipelineConfig значения по умолчанию.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		BackgroundFrames: 30,
		RetryDelay:       time.Second,
	}
}

// Vision алгоритмы, которыми пользуется конвейер.
type Vision struct {
	Background port.BackgroundBuilder
	Masks      port.MaskBuilder
	Compositor port.Compositor
	Annotator  port.Annotator
}

// Pipeline сессия «плаща-невидимки»: фон, затем цвет, затем покадровая подмена.
// Владеет источником кадров и окнами и освобождает их ровно один раз.
type Pipeline struct {
	cfg      PipelineConfig
	source   port.FrameSource
	sink     port.DisplaySink
	signals  port.SignalSource
	strategy port.ColorRangeStrategy
	vision   Vision
	clock    timeutil.Clock
	logger   *log.Logger

	mu     sync.RWMutex
	status entity.SessionStatus

	opened    bool // источник успешно открыт и требует освобождения
	closeOnce sync.Once
}

// NewPipeline собирает сессию.
func NewPipeline(cfg PipelineConfig, source port.FrameSource, sink port.DisplaySink, signals port.SignalSource,
	strategy port.ColorRangeStrategy, vision Vision, clock timeutil.Clock) *Pipeline {
	if clock == nil {
		clock = timeutil.RealClock{}
	}

	id := ksuid.New().String()
	return &Pipeline{
		cfg:      cfg,
		source:   source,
		sink:     sink,
		signals:  signals,
		strategy: strategy,
		vision:   vision,
		clock:    clock,
		logger:   log.New(log.Writer(), fmt.Sprintf("[%s] ", id), log.Flags()),
		status: entity.SessionStatus{
			ID:        id,
			State:     entity.StateAwaitingBackground,
			StartedAt: clock.Now(),
		},
	}
}

// Run проводит сессию до конца. Выход по команде пользователя и исчерпание источника
// в основном цикле не считаются ошибкой.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.terminate()

	if err := p.source.Open(ctx); err != nil {
		return p.finish(fmt.Errorf("open frame source: %w", err))
	}
	p.opened = true

	background, err := p.acquireBackground(ctx)
	if err != nil {
		return p.finish(err)
	}
	p.sink.Show(port.WindowBackground, background)

	p.setState(entity.StateAwaitingColorSample)
	rng, err := p.strategy.Acquire(ctx, feed{p})
	if err != nil {
		return p.finish(fmt.Errorf("acquire color range: %w", err))
	}
	p.setRange(rng)
	p.logger.Printf("Color range: %s", rng)

	p.setState(entity.StateStreaming)
	p.logger.Println("Streaming started, press q to exit")
	return p.finish(p.stream(ctx, background, rng))
}

// Status снимок состояния; безопасен для вызова из других горутин.
func (p *Pipeline) Status() entity.SessionStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.status
	if s.ColorRange != nil {
		rng := *s.ColorRange
		s.ColorRange = &rng
	}
	return s
}

func (p *Pipeline) acquireBackground(ctx context.Context) (entity.Frame, error) {
	if p.cfg.WaitBackgroundSignal {
		overlay := func(entity.Frame) entity.Overlay {
			return entity.Overlay{Lines: []string{"Step out of the picture", "Press B to capture the background"}}
		}
		if _, err := awaitSignal(ctx, feed{p}, entity.SignalCaptureBackground, overlay, p.cfg.RetryDelay); err != nil {
			return entity.Frame{}, err
		}
	}

	bg, err := p.vision.Background.Build(ctx, p.source, p.cfg.BackgroundFrames)
	if err != nil {
		return entity.Frame{}, fmt.Errorf("capture background: %w", err)
	}
	return bg, nil
}

// stream основной цикл: чтение, маска, подмена, вывод, опрос команд.
func (p *Pipeline) stream(ctx context.Context, background entity.Frame, rng entity.ColorRange) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, ok := p.source.Read()
		if ok && !frame.SameSize(background) {
			p.logger.Printf("Error: frame %dx%d does not match background %dx%d",
				frame.Width(), frame.Height(), background.Width(), background.Height())
			ok = false
		}

		if ok {
			mask := p.vision.Masks.Build(frame, rng)
			out, err := p.vision.Compositor.Composite(frame, mask, background)
			if err != nil {
				return fmt.Errorf("composite frame %d: %w", frame.Index, err)
			}
			p.sink.Show(port.WindowOutput, out)
			if p.cfg.ShowMask {
				p.sink.Show(port.WindowMask, mask.Frame())
			}
			p.countFrame(true)
		} else {
			if exhausted(p.source) {
				p.logger.Println("Frame source exhausted")
				return nil
			}
			p.countFrame(false)
			p.logger.Println("Error: could not read frame")
		}

		if p.signals.Poll() == entity.SignalExit {
			return nil
		}

		if !ok {
			if err := p.clock.Sleep(ctx, p.cfg.RetryDelay); err != nil {
				return err
			}
		}
	}
}

// finish отделяет штатное завершение от аварийного и запоминает причину аварии.
// Отмена контекста аварией не считается.
func (p *Pipeline) finish(err error) error {
	if err == nil || errors.Is(err, ErrExitRequested) {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	p.mu.Lock()
	p.status.Error = err.Error()
	p.mu.Unlock()
	return err
}

// terminate освобождает открытый источник и окна ровно один раз.
func (p *Pipeline) terminate() {
	p.closeOnce.Do(func() {
		p.setState(entity.StateTerminated)
		if p.opened {
			if err := p.source.Close(); err != nil {
				p.logger.Printf("Error releasing frame source: %v", err)
			}
		}
		if err := p.sink.Close(); err != nil {
			p.logger.Printf("Error closing display: %v", err)
		}
		s := p.Status()
		p.logger.Printf("Session terminated: %d frames processed, %d dropped", s.FramesProcessed, s.FramesDropped)
	})
}

func (p *Pipeline) setState(state entity.SessionState) {
	p.mu.Lock()
	p.status.State = state
	p.mu.Unlock()
}

func (p *Pipeline) setRange(rng entity.ColorRange) {
	p.mu.Lock()
	p.status.ColorRange = &rng
	p.mu.Unlock()
}

func (p *Pipeline) countFrame(processed bool) {
	p.mu.Lock()
	if processed {
		p.status.FramesProcessed++
	} else {
		p.status.FramesDropped++
	}
	p.mu.Unlock()
}

func exhausted(source port.FrameSource) bool {
	finite, ok := source.(port.FiniteSource)
	return ok && finite.Done()
}

// feed открывает стратегиям доступ к источнику, окнам и командам сессии.
type feed struct {
	p *Pipeline
}

func (f feed) Next() (entity.Frame, bool) { return f.p.source.Read() }
func (f feed) Exhausted() bool            { return exhausted(f.p.source) }
func (f feed) Signal() entity.Signal      { return f.p.signals.Poll() }
func (f feed) Now() time.Time             { return f.p.clock.Now() }

func (f feed) Show(frame entity.Frame, overlay entity.Overlay) {
	f.p.sink.Show(port.WindowOutput, f.p.vision.Annotator.Annotate(frame, overlay))
}

func (f feed) Wait(ctx context.Context, d time.Duration) error {
	return f.p.clock.Sleep(ctx, d)
}

var (
	_ port.Feed           = feed{}
	_ port.StatusProvider = (*Pipeline)(nil)
)
