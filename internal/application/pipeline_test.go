package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/vision"
	"invisibility-cloak/internal/timeutil"
)

var redRange = entity.ColorRange{
	Lower: entity.HSV{H: 0, S: 120, V: 70},
	Upper: entity.HSV{H: 10, S: 255, V: 255},
}

func newTestPipeline(cfg PipelineConfig, source port.FrameSource, sink port.DisplaySink,
	signals port.SignalSource, strategy port.ColorRangeStrategy) (*Pipeline, *timeutil.MockClock) {
	clock := timeutil.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	v := Vision{
		Background: vision.NewBackgroundModel(100*time.Millisecond, clock),
		Masks:      vision.NewMaskBuilder(),
		Compositor: vision.NewCompositor(),
		Annotator:  vision.NewAnnotator(),
	}
	return NewPipeline(cfg, source, sink, signals, strategy, v, clock), clock
}

func testConfig() PipelineConfig {
	cfg := DefaultPipelineConfig()
	cfg.BackgroundFrames = 3
	return cfg
}

func TestPipeline_HidesCloakBehindBackground(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame(), grayFrame(), grayFrame(), cloakFrame(), cloakFrame())}
	sink := newFakeSink()
	p, _ := newTestPipeline(testConfig(), finiteSource{src}, sink, &fakeSignals{}, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, sink.shown[port.WindowBackground], 1)
	outputs := sink.shown[port.WindowOutput]
	require.Len(t, outputs, 2)
	for _, out := range outputs {
		for y := 0; y < out.Height(); y++ {
			for x := 0; x < out.Width(); x++ {
				r, g, b := out.RGB(x, y)
				require.Equal(t, [3]uint8{128, 128, 128}, [3]uint8{r, g, b}, "pixel %d,%d", x, y)
			}
		}
	}

	status := p.Status()
	require.Equal(t, entity.StateTerminated, status.State)
	require.Equal(t, 2, status.FramesProcessed)
	require.Zero(t, status.FramesDropped)
	require.Empty(t, status.Error)
	require.NotNil(t, status.ColorRange)
	require.Equal(t, redRange, *status.ColorRange)
	require.NotEmpty(t, status.ID)

	require.Equal(t, 1, src.closes)
	require.Equal(t, 1, sink.closes)
}

func TestPipeline_ShowsMaskWhenEnabled(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame(), grayFrame(), grayFrame(), cloakFrame())}
	sink := newFakeSink()
	cfg := testConfig()
	cfg.ShowMask = true
	p, _ := newTestPipeline(cfg, finiteSource{src}, sink, &fakeSignals{}, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))

	masks := sink.shown[port.WindowMask]
	require.Len(t, masks, 1)
	r, _, _ := masks[0].RGB(10, 10)
	require.Equal(t, uint8(entity.MaskOn), r)
	r, _, _ = masks[0].RGB(0, 0)
	require.Equal(t, uint8(entity.MaskOff), r)
}

func TestPipeline_OpenFailureTerminates(t *testing.T) {
	src := &fakeSource{openErr: errors.New("no camera")}
	sink := newFakeSink()
	p, _ := newTestPipeline(testConfig(), src, sink, &fakeSignals{}, &FixedStrategy{Range: redRange})

	err := p.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no camera")
	require.Equal(t, entity.StateTerminated, p.Status().State)
	require.Contains(t, p.Status().Error, "no camera")
	require.Zero(t, src.pos)
	require.Zero(t, src.closes, "source that never opened must not be released")
	require.Equal(t, 1, sink.closes)
}

func TestPipeline_InsufficientBackgroundSamples(t *testing.T) {
	src := &fakeSource{frames: script{nil}}
	p, _ := newTestPipeline(testConfig(), src, newFakeSink(), &fakeSignals{}, &FixedStrategy{Range: redRange})

	err := p.Run(context.Background())
	require.ErrorIs(t, err, entity.ErrInsufficientSamples)
	status := p.Status()
	require.Equal(t, entity.StateTerminated, status.State)
	require.Contains(t, status.Error, entity.ErrInsufficientSamples.Error())
	require.Equal(t, 1, src.closes)
}

func TestPipeline_ExitWhileAwaitingBackground(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame())}
	sink := newFakeSink()
	cfg := testConfig()
	cfg.WaitBackgroundSignal = true
	signals := &fakeSignals{queue: []entity.Signal{entity.SignalContinue, entity.SignalExit}}
	p, _ := newTestPipeline(cfg, src, sink, signals, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, sink.shown[port.WindowOutput], 2)
	require.Empty(t, sink.shown[port.WindowBackground])
	require.Equal(t, entity.StateTerminated, p.Status().State)
	require.Nil(t, p.Status().ColorRange)
	require.Empty(t, p.Status().Error)
	require.Equal(t, 1, src.closes)
}

func TestPipeline_BackgroundSignalStartsCapture(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame())}
	sink := newFakeSink()
	cfg := testConfig()
	cfg.WaitBackgroundSignal = true
	signals := &fakeSignals{queue: []entity.Signal{
		entity.SignalCaptureBackground, // ожидание фона
		entity.SignalExit,              // первый цикл трансляции
	}}
	p, _ := newTestPipeline(cfg, src, sink, signals, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))
	require.Len(t, sink.shown[port.WindowBackground], 1)
	require.Equal(t, 1, p.Status().FramesProcessed)
}

func TestPipeline_DroppedFramesKeepStreaming(t *testing.T) {
	g := grayFrame()
	c := cloakFrame()
	src := &fakeSource{frames: script{&g, &g, &g, nil, nil, &c}}
	signals := &fakeSignals{queue: []entity.Signal{entity.SignalContinue, entity.SignalContinue, entity.SignalExit}}
	p, clock := newTestPipeline(testConfig(), src, newFakeSink(), signals, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))

	status := p.Status()
	require.Equal(t, 2, status.FramesDropped)
	require.Equal(t, 1, status.FramesProcessed)
	require.Equal(t, []time.Duration{
		100 * time.Millisecond, 100 * time.Millisecond, // серия фона
		time.Second, time.Second, // повторы после сбоев
	}, clock.Sleeps())
	require.Equal(t, 1, src.closes)
}

func TestPipeline_MismatchedFrameIsDropped(t *testing.T) {
	g := grayFrame()
	small := entity.NewUniformFrame(10, 10, gray)
	src := &fakeSource{frames: script{&g, &g, &g, &small, &g}}
	signals := &fakeSignals{queue: []entity.Signal{entity.SignalContinue, entity.SignalExit}}
	p, _ := newTestPipeline(testConfig(), src, newFakeSink(), signals, &FixedStrategy{Range: redRange})

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, 1, p.Status().FramesDropped)
	require.Equal(t, 1, p.Status().FramesProcessed)
}

func TestPipeline_ExitDuringColorSample(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame())}
	signals := &fakeSignals{queue: []entity.Signal{entity.SignalExit}}
	strategy := &InteractiveStrategy{Estimator: vision.NewColorEstimator(), SampleSize: 4, RetryDelay: time.Second}
	p, _ := newTestPipeline(testConfig(), src, newFakeSink(), signals, strategy)

	require.NoError(t, p.Run(context.Background()))
	require.Equal(t, entity.StateTerminated, p.Status().State)
	require.Equal(t, 1, src.closes)
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := &fakeSource{frames: frames(grayFrame())}
	sink := newFakeSink()
	p, _ := newTestPipeline(testConfig(), src, sink, &fakeSignals{}, &FixedStrategy{Range: redRange})

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, p.Status().Error)
	require.Equal(t, 1, src.closes)
	require.Equal(t, 1, sink.closes)
}

func TestPipeline_SourceExhaustedBeforeColor(t *testing.T) {
	src := &fakeSource{frames: frames(grayFrame(), grayFrame(), grayFrame())}
	strategy := NewAutoStrategy(vision.NewColorEstimator(), 4, time.Second)
	p, _ := newTestPipeline(testConfig(), finiteSource{src}, newFakeSink(), &fakeSignals{}, strategy)

	err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrSourceExhausted)
	require.Equal(t, 1, src.closes)
}
