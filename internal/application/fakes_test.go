package app

import (
	"context"
	"image"
	"image/color"
	"time"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/timeutil"
)

var (
	gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	red  = color.RGBA{R: 255, A: 255}
)

// script кадры по порядку, nil означает неудачное чтение. После конца повторяется последний элемент.
type script []*entity.Frame

func (s script) at(i int) (entity.Frame, bool) {
	if len(s) == 0 {
		return entity.Frame{}, false
	}
	if i >= len(s) {
		i = len(s) - 1
	}
	if s[i] == nil {
		return entity.Frame{}, false
	}
	return *s[i], true
}

func frames(fs ...entity.Frame) script {
	out := make(script, len(fs))
	for i := range fs {
		out[i] = &fs[i]
	}
	return out
}

func grayFrame() entity.Frame {
	return entity.NewUniformFrame(20, 20, gray)
}

// cloakFrame серый кадр с красным квадратом 8×8 в центре.
func cloakFrame() entity.Frame {
	f := grayFrame()
	f.Fill(image.Rect(6, 6, 14, 14), red)
	return f
}

type fakeSource struct {
	frames  script
	pos     int
	openErr error
	opens   int
	closes  int
}

func (s *fakeSource) Open(context.Context) error {
	s.opens++
	return s.openErr
}

func (s *fakeSource) Read() (entity.Frame, bool) {
	f, ok := s.frames.at(s.pos)
	s.pos++
	return f, ok
}

func (s *fakeSource) Close() error {
	s.closes++
	return nil
}

// finiteSource заканчивается после последнего кадра сценария.
type finiteSource struct {
	*fakeSource
}

func (s finiteSource) Read() (entity.Frame, bool) {
	if s.Done() {
		return entity.Frame{}, false
	}
	return s.fakeSource.Read()
}

func (s finiteSource) Done() bool {
	return s.pos >= len(s.frames)
}

type fakeSink struct {
	shown  map[string][]entity.Frame
	closes int
}

func newFakeSink() *fakeSink {
	return &fakeSink{shown: make(map[string][]entity.Frame)}
}

func (s *fakeSink) Show(window string, frame entity.Frame) {
	s.shown[window] = append(s.shown[window], frame)
}

func (s *fakeSink) Close() error {
	s.closes++
	return nil
}

type fakeSignals struct {
	queue []entity.Signal
	polls int
}

func (q *fakeSignals) Poll() entity.Signal {
	q.polls++
	if len(q.queue) == 0 {
		return entity.SignalContinue
	}
	s := q.queue[0]
	q.queue = q.queue[1:]
	return s
}

type fakeFeed struct {
	clock     *timeutil.MockClock
	frames    script
	pos       int
	exhausted bool
	signals   fakeSignals
	overlays  []entity.Overlay
}

func newFakeFeed(fs script, signals ...entity.Signal) *fakeFeed {
	return &fakeFeed{
		clock:   timeutil.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		frames:  fs,
		signals: fakeSignals{queue: signals},
	}
}

func (f *fakeFeed) Next() (entity.Frame, bool) {
	if f.exhausted && f.pos >= len(f.frames) {
		return entity.Frame{}, false
	}
	fr, ok := f.frames.at(f.pos)
	f.pos++
	return fr, ok
}

func (f *fakeFeed) Exhausted() bool {
	return f.exhausted && f.pos >= len(f.frames)
}

func (f *fakeFeed) Show(_ entity.Frame, overlay entity.Overlay) {
	f.overlays = append(f.overlays, overlay)
}

func (f *fakeFeed) Signal() entity.Signal { return f.signals.Poll() }
func (f *fakeFeed) Now() time.Time        { return f.clock.Now() }

func (f *fakeFeed) Wait(ctx context.Context, d time.Duration) error {
	return f.clock.Sleep(ctx, d)
}
