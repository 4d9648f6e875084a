package capture

import (
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// VideoWriter записывает кадры одного окна в видеофайл через ffmpeg.
type VideoWriter struct {
	Path   string
	FPS    int
	Window string

	width, height int
	cmd           *exec.Cmd
	stdin         io.WriteCloser
	buf           []byte
	failed        bool
}

// NewVideoWriter создаёт запись окна window в файл path.
func NewVideoWriter(path string, fps int, window string) *VideoWriter {
	if fps <= 0 {
		fps = 30
	}
	return &VideoWriter{Path: path, FPS: fps, Window: window}
}

// Show кодирует кадр, если он адресован записываемому окну. Кодер запускается на первом кадре.
func (w *VideoWriter) Show(window string, frame entity.Frame) {
	if window != w.Window || w.failed || frame.Empty() {
		return
	}

	if w.stdin == nil {
		if err := w.start(frame.Width(), frame.Height()); err != nil {
			log.Printf("Error starting recorder %s: %v", w.Path, err)
			w.failed = true
			return
		}
	}
	if frame.Width() != w.width || frame.Height() != w.height {
		log.Printf("Recorder %s: frame %dx%d does not match %dx%d, skipped",
			w.Path, frame.Width(), frame.Height(), w.width, w.height)
		return
	}

	rgb24FromFrame(frame, w.buf)
	if _, err := w.stdin.Write(w.buf); err != nil {
		log.Printf("Error writing to recorder %s: %v", w.Path, err)
		w.failed = true
	}
}

func (w *VideoWriter) start(width, height int) error {
	cmd := ffmpeg.Input("pipe:0", ffmpeg.KwArgs{
		"format":  "rawvideo",
		"pix_fmt": "rgb24",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       strconv.Itoa(w.FPS),
	}).
		Output(w.Path, ffmpeg.KwArgs{"pix_fmt": "yuv420p"}).
		OverWriteOutput().
		Compile()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	w.cmd, w.stdin = cmd, stdin
	w.width, w.height = width, height
	w.buf = make([]byte, width*height*3)
	log.Printf("Recording %dx%d@%d to %s", width, height, w.FPS, w.Path)
	return nil
}

// Close закрывает вход кодера и дожидается записи файла.
func (w *VideoWriter) Close() error {
	if w.cmd == nil {
		return nil
	}
	cmd := w.cmd
	w.cmd = nil
	if err := w.stdin.Close(); err != nil {
		return fmt.Errorf("close recorder %s: %w", w.Path, err)
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("recorder %s: %w", w.Path, err)
	}
	return nil
}

// rgb24FromFrame упаковывает кадр в плотный буфер rgb24 без альфы.
func rgb24FromFrame(frame entity.Frame, buf []byte) {
	i := 0
	for y := 0; y < frame.Height(); y++ {
		for x := 0; x < frame.Width(); x++ {
			buf[i], buf[i+1], buf[i+2] = frame.RGB(x, y)
			i += 3
		}
	}
}

var _ port.DisplaySink = (*VideoWriter)(nil)
