package container

import (
	"fmt"
	"io"

	"invisibility-cloak/config"
	"invisibility-cloak/internal/api/preview"
	"invisibility-cloak/internal/api/telegram"
	app "invisibility-cloak/internal/application"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/capture"
	"invisibility-cloak/internal/infrastructure/storage"
	"invisibility-cloak/internal/infrastructure/vision"
	"invisibility-cloak/internal/timeutil"
)

const windowTitle = "Invisibility Cloak"

type Container struct {
	Pipeline *app.Pipeline
	Bot      *telegram.Bot   // nil, если бот не настроен
	Preview  *preview.Server // nil, если предпросмотр не настроен

	closers []io.Closer
}

func New(cfg *config.Config) (*Container, error) {
	c := &Container{}
	clock := timeutil.RealClock{}

	v, err := c.buildVision(cfg, clock)
	if err != nil {
		return nil, err
	}

	var (
		sinks   capture.MultiSink
		signals capture.MultiSignal
	)

	// окно опрашивается первым: клавиатура работает всегда
	if cfg.ShowWindow {
		w, err := capture.NewWindow(windowTitle)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("open window: %w", err)
		}
		sinks = append(sinks, w)
		signals = append(signals, w)
	}

	if cfg.OutputFile != "" {
		sinks = append(sinks, capture.NewVideoWriter(cfg.OutputFile, cfg.OutputFPS, port.WindowOutput))
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, storage.NewMemorySubscriberRepository(), cfg.AllowedChats, cfg.SnapshotWidth)
		if err != nil {
			sinks.Close()
			c.Close()
			return nil, fmt.Errorf("create bot: %w", err)
		}
		if cfg.SnapshotSchedule != "" {
			if err := bot.Schedule(cfg.SnapshotSchedule); err != nil {
				sinks.Close()
				c.Close()
				return nil, err
			}
		}
		c.Bot = bot
		sinks = append(sinks, bot)
		signals = append(signals, bot)
	}

	if cfg.PreviewAddr != "" {
		c.Preview = preview.NewServer(cfg.PreviewAddr)
		sinks = append(sinks, c.Preview)
		signals = append(signals, c.Preview)
	}

	pipelineCfg := app.DefaultPipelineConfig()
	pipelineCfg.BackgroundFrames = cfg.BackgroundFrames
	pipelineCfg.RetryDelay = cfg.RetryDelay
	pipelineCfg.ShowMask = cfg.ShowMask
	pipelineCfg.WaitBackgroundSignal = cfg.ColorMode == config.ColorModeInteractive

	c.Pipeline = app.NewPipeline(pipelineCfg, NewSource(cfg), sinks, signals, NewStrategy(cfg), v, clock)
	if c.Preview != nil {
		c.Preview.Bind(c.Pipeline)
	}

	return c, nil
}

// NewSource выбирает источник кадров: видеофайл, каталог изображений или камера.
func NewSource(cfg *config.Config) port.FrameSource {
	switch {
	case cfg.VideoFile != "":
		return capture.NewVideoFile(cfg.VideoFile, cfg.SourceLoop)
	case cfg.ImageDir != "":
		return capture.NewImageDir(cfg.ImageDir, cfg.SourceLoop)
	default:
		return capture.NewCamera(cfg.CameraDevice)
	}
}

// NewStrategy выбирает способ получения диапазона цвета.
func NewStrategy(cfg *config.Config) port.ColorRangeStrategy {
	estimator := vision.NewColorEstimator()
	switch cfg.ColorMode {
	case config.ColorModeFixed:
		return &app.FixedStrategy{Range: cfg.ColorRange}
	case config.ColorModeInteractive:
		return &app.InteractiveStrategy{Estimator: estimator, SampleSize: cfg.SampleSize, RetryDelay: cfg.RetryDelay}
	default:
		return app.NewAutoStrategy(estimator, cfg.SampleSize, cfg.ColorDelay)
	}
}

func (c *Container) buildVision(cfg *config.Config, clock timeutil.Clock) (app.Vision, error) {
	v := app.Vision{
		Background: vision.NewBackgroundModel(cfg.BackgroundInterval, clock),
		Masks:      vision.NewMaskBuilder(),
		Compositor: vision.NewCompositor(),
		Annotator:  vision.NewAnnotator(),
	}
	if cfg.MaskBackend != config.BackendGoCV {
		return v, nil
	}

	masks, err := vision.NewGoCVMaskBuilder()
	if err != nil {
		return app.Vision{}, fmt.Errorf("create gocv mask builder: %w", err)
	}
	compositor, err := vision.NewGoCVCompositor()
	if err != nil {
		masks.Close()
		return app.Vision{}, fmt.Errorf("create gocv compositor: %w", err)
	}
	c.closers = append(c.closers, masks)
	v.Masks = masks
	v.Compositor = compositor
	return v, nil
}

// Close освобождает ресурсы, которыми не владеет конвейер.
func (c *Container) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
