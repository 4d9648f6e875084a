package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// videoProbe нужна только геометрия видеопотока
type videoProbe struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// VideoFile источник кадров из видеофайла: ffmpeg декодирует поток в rgb24 через pipe.
type VideoFile struct {
	Path string
	Loop bool

	width, height int
	ctx           context.Context
	cmd           *exec.Cmd
	stdout        io.ReadCloser
	buf           []byte
	index         int
	done          bool
}

// NewVideoFile создаёт источник для файла.
func NewVideoFile(path string, loop bool) *VideoFile {
	return &VideoFile{Path: path, Loop: loop}
}

// Open определяет размер кадра через ffprobe и запускает декодер.
func (v *VideoFile) Open(ctx context.Context) error {
	probe, err := ffmpeg.Probe(v.Path)
	if err != nil {
		return fmt.Errorf("ffprobe %s: %w", v.Path, err)
	}
	w, h, err := parseProbe(probe)
	if err != nil {
		return fmt.Errorf("ffprobe %s: %w", v.Path, err)
	}

	v.width, v.height = w, h
	v.buf = make([]byte, w*h*3)
	v.ctx = ctx
	log.Printf("Video %s: %dx%d", v.Path, w, h)
	return v.start()
}

func (v *VideoFile) start() error {
	stream := ffmpeg.Input(v.Path).
		Output("pipe:1", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
		})
	stream.Context = v.ctx
	cmd := stream.Compile()

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	v.cmd, v.stdout = cmd, stdout
	return nil
}

// Read читает один кадр. В конце файла без зацикливания и при ошибке декодера
// источник помечается исчерпанным.
func (v *VideoFile) Read() (entity.Frame, bool) {
	if v.done || v.stdout == nil {
		return entity.Frame{}, false
	}

	if _, err := io.ReadFull(v.stdout, v.buf); err != nil {
		v.stop()
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			// декодер сломан, повторное чтение ничего не даст
			log.Printf("Error reading video %s: %v", v.Path, err)
			v.done = true
			return entity.Frame{}, false
		}
		if v.Loop {
			if err := v.start(); err != nil {
				log.Printf("Error restarting video %s: %v", v.Path, err)
				v.done = true
			}
			return entity.Frame{}, false
		}
		v.done = true
		return entity.Frame{}, false
	}

	frame := frameFromRGB24(v.width, v.height, v.buf, v.index)
	v.index++
	return frame, true
}

// Done сообщает, что кадры закончились.
func (v *VideoFile) Done() bool {
	return v.done
}

// Close останавливает декодер.
func (v *VideoFile) Close() error {
	v.done = true
	return v.stop()
}

func (v *VideoFile) stop() error {
	if v.cmd == nil {
		v.stdout = nil
		return nil
	}
	cmd := v.cmd
	v.cmd, v.stdout = nil, nil
	if cmd.ProcessState == nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	err := cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// прерванный декодер завершается с ненулевым кодом
		return nil
	}
	return err
}

// parseProbe достаёт размер первого видеопотока из JSON ffprobe.
func parseProbe(data string) (width, height int, err error) {
	var probe videoProbe
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return 0, 0, fmt.Errorf("json unmarshal error: %w", err)
	}
	for _, s := range probe.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, errors.New("no video stream found")
}

// frameFromRGB24 копирует плотный буфер rgb24 в кадр.
func frameFromRGB24(width, height int, buf []byte, index int) entity.Frame {
	frame := entity.NewFrame(width, height)
	frame.Index = index
	pix := frame.Image.Pix
	for i, j := 0, 0; i+2 < len(buf) && j+3 < len(pix); i, j = i+3, j+4 {
		pix[j], pix[j+1], pix[j+2] = buf[i], buf[i+1], buf[i+2]
	}
	return frame
}

var (
	_ port.FrameSource  = (*VideoFile)(nil)
	_ port.FiniteSource = (*VideoFile)(nil)
)
