package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "golang.org/x/image/webp"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// ImageDir источник кадров из каталога снимков, отсортированных по имени.
type ImageDir struct {
	Dir  string
	Loop bool

	files []string
	pos   int
	index int
	done  bool
}

// NewImageDir создаёт источник для каталога.
func NewImageDir(dir string, loop bool) *ImageDir {
	return &ImageDir{Dir: dir, Loop: loop}
}

// Open собирает список изображений.
func (d *ImageDir) Open(ctx context.Context) error {
	_ = ctx
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return fmt.Errorf("read image dir: %w", err)
	}

	d.files = d.files[:0]
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		d.files = append(d.files, filepath.Join(d.Dir, e.Name()))
	}
	if len(d.files) == 0 {
		return fmt.Errorf("no images found in %s", d.Dir)
	}
	sort.Strings(d.files)
	d.pos, d.done = 0, false
	return nil
}

// Read декодирует следующий снимок; битый файл считается временным сбоем.
func (d *ImageDir) Read() (entity.Frame, bool) {
	if d.done || len(d.files) == 0 {
		return entity.Frame{}, false
	}
	if d.pos >= len(d.files) {
		if !d.Loop {
			d.done = true
			return entity.Frame{}, false
		}
		d.pos = 0
	}

	path := d.files[d.pos]
	d.pos++

	img, err := decodeImage(path)
	if err != nil {
		log.Printf("Error decoding %s: %v", path, err)
		return entity.Frame{}, false
	}

	frame := entity.Frame{Index: d.index, Image: toRGBA(img)}
	d.index++
	return frame, true
}

// Done сообщает, что снимки закончились.
func (d *ImageDir) Done() bool {
	return d.done
}

// Close ничего не держит открытым.
func (d *ImageDir) Close() error {
	d.done = true
	return nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// toRGBA приводит изображение к непрозрачному RGBA с началом в нуле.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

var (
	_ port.FrameSource  = (*ImageDir)(nil)
	_ port.FiniteSource = (*ImageDir)(nil)
)
