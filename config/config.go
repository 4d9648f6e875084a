package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"invisibility-cloak/internal/domain/entity"
)

// Режимы получения диапазона цвета.
const (
	ColorModeAuto        = "auto"
	ColorModeFixed       = "fixed"
	ColorModeInteractive = "interactive"
)

// Реализации маски и подмены.
const (
	BackendGo   = "go"
	BackendGoCV = "gocv"
)

type Config struct {
	// источник и вывод
	CameraDevice string
	VideoFile    string
	ImageDir     string
	SourceLoop   bool
	OutputFile   string
	OutputFPS    int
	ShowWindow   bool
	ShowMask     bool

	// цвет
	ColorMode  string
	ColorRange entity.ColorRange
	SampleSize int
	ColorDelay time.Duration

	// фон и цикл
	BackgroundFrames   int
	BackgroundInterval time.Duration
	RetryDelay         time.Duration
	MaskBackend        string

	// удалённое управление
	TelegramToken    string
	AllowedChats     []int64
	SnapshotSchedule string
	SnapshotWidth    uint
	PreviewAddr      string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из произвольного источника переменных.
func FromEnv(getenv func(string) string) (*Config, error) {
	p := parser{getenv: getenv}

	cfg := &Config{
		CameraDevice: p.str("CAMERA_DEVICE", "0"),
		VideoFile:    p.str("VIDEO_FILE", ""),
		ImageDir:     p.str("IMAGE_DIR", ""),
		SourceLoop:   p.boolean("SOURCE_LOOP", false),
		OutputFile:   p.str("OUTPUT_FILE", ""),
		OutputFPS:    p.integer("OUTPUT_FPS", 30),
		ShowWindow:   p.boolean("SHOW_WINDOW", true),
		ShowMask:     p.boolean("SHOW_MASK", false),

		ColorMode: strings.ToLower(p.str("COLOR_MODE", ColorModeAuto)),
		ColorRange: entity.ColorRange{
			Lower: p.hsv("COLOR_LOWER", entity.HSV{H: 0, S: 120, V: 70}),
			Upper: p.hsv("COLOR_UPPER", entity.HSV{H: 10, S: 255, V: 255}),
		},
		SampleSize: p.integer("SAMPLE_SIZE", entity.DefaultSampleSize),
		ColorDelay: p.duration("COLOR_DELAY", 3*time.Second),

		BackgroundFrames:   p.integer("BACKGROUND_FRAMES", 30),
		BackgroundInterval: p.duration("BACKGROUND_INTERVAL", 100*time.Millisecond),
		RetryDelay:         p.duration("RETRY_DELAY", time.Second),
		MaskBackend:        strings.ToLower(p.str("MASK_BACKEND", BackendGo)),

		TelegramToken:    p.str("TELEGRAM_TOKEN", ""),
		AllowedChats:     p.ids("TELEGRAM_ALLOWED_CHATS"),
		SnapshotSchedule: p.str("SNAPSHOT_SCHEDULE", ""),
		SnapshotWidth:    p.width("SNAPSHOT_WIDTH", 640),
		PreviewAddr:      p.str("PREVIEW_ADDR", ""),
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет диапазоны значений и сочетания параметров.
func (c *Config) Validate() error {
	var errs []error

	switch c.ColorMode {
	case ColorModeAuto, ColorModeFixed, ColorModeInteractive:
	default:
		errs = append(errs, fmt.Errorf("COLOR_MODE: unknown mode %q", c.ColorMode))
	}
	switch c.MaskBackend {
	case BackendGo, BackendGoCV:
	default:
		errs = append(errs, fmt.Errorf("MASK_BACKEND: unknown backend %q", c.MaskBackend))
	}

	if c.ColorMode == ColorModeFixed {
		if err := c.ColorRange.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("COLOR_LOWER/COLOR_UPPER: %w", err))
		}
	}
	if c.VideoFile != "" && c.ImageDir != "" {
		errs = append(errs, errors.New("VIDEO_FILE and IMAGE_DIR are mutually exclusive"))
	}
	if c.SampleSize <= 0 {
		errs = append(errs, fmt.Errorf("SAMPLE_SIZE: must be positive, got %d", c.SampleSize))
	}
	if c.BackgroundFrames <= 0 {
		errs = append(errs, fmt.Errorf("BACKGROUND_FRAMES: must be positive, got %d", c.BackgroundFrames))
	}
	if c.OutputFPS <= 0 {
		errs = append(errs, fmt.Errorf("OUTPUT_FPS: must be positive, got %d", c.OutputFPS))
	}
	if c.ColorDelay < 0 || c.BackgroundInterval < 0 || c.RetryDelay < 0 {
		errs = append(errs, errors.New("COLOR_DELAY, BACKGROUND_INTERVAL and RETRY_DELAY must not be negative"))
	}
	if c.SnapshotSchedule != "" && c.TelegramToken == "" {
		errs = append(errs, errors.New("SNAPSHOT_SCHEDULE requires TELEGRAM_TOKEN"))
	}

	return errors.Join(errs...)
}

// parser читает переменные, накапливая ошибки разбора.
type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) width(key string, def uint) uint {
	n := p.integer(key, int(def))
	if n < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: must not be negative, got %d", key, n))
		return def
	}
	return uint(n)
}

func (p *parser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}

func (p *parser) hsv(key string, def entity.HSV) entity.HSV {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return def
	}
	c, err := entity.ParseHSV(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return c
}

func (p *parser) ids(key string) []int64 {
	v := strings.TrimSpace(p.getenv(key))
	if v == "" {
		return nil
	}
	var out []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		out = append(out, id)
	}
	return out
}
