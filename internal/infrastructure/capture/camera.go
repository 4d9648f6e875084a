//go:build gocv
// +build gocv

package capture

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"gocv.io/x/gocv"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/vision"
)

// Camera источник кадров OpenCV: индекс устройства, файл или URL потока.
type Camera struct {
	Device  string
	capture *gocv.VideoCapture
	mat     gocv.Mat
	index   int
}

// NewCamera создаёт источник для устройства; захват происходит в Open.
func NewCamera(device string) *Camera {
	return &Camera{Device: device}
}

// Open открывает устройство.
func (c *Camera) Open(ctx context.Context) error {
	_ = ctx
	log.Printf("OpenCV version: %s", gocv.Version())

	capture, err := gocv.OpenVideoCapture(deviceArg(c.Device))
	if err != nil {
		return fmt.Errorf("open camera %q: %w", c.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open camera %q: device is not opened", c.Device)
	}

	c.capture = capture
	c.mat = gocv.NewMat()
	return nil
}

// Read читает следующий кадр.
func (c *Camera) Read() (entity.Frame, bool) {
	if c.capture == nil {
		return entity.Frame{}, false
	}
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return entity.Frame{}, false
	}

	frame, err := vision.MatToFrame(c.mat, c.index)
	if err != nil {
		log.Printf("Error converting camera frame: %v", err)
		return entity.Frame{}, false
	}
	c.index++
	return frame, true
}

// Close освобождает устройство.
func (c *Camera) Close() error {
	if c.capture == nil {
		return nil
	}
	c.mat.Close()
	err := c.capture.Close()
	c.capture = nil
	return err
}

// deviceArg: число означает индекс устройства, иначе это путь или URL.
func deviceArg(device string) interface{} {
	if id, err := strconv.Atoi(device); err == nil {
		return id
	}
	return device
}

var _ port.FrameSource = (*Camera)(nil)
