package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/nfnt/resize"

	"invisibility-cloak/internal/domain/entity"
)

// SnapshotQuality качество JPEG для снимков.
const SnapshotQuality = 85

// EncodeSnapshot кодирует кадр в JPEG, уменьшая его до maxWidth с сохранением пропорций.
// maxWidth = 0 оставляет исходный размер.
func EncodeSnapshot(frame entity.Frame, maxWidth uint) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("encode snapshot: empty frame")
	}

	var img image.Image = frame.Image
	if maxWidth > 0 && uint(frame.Width()) > maxWidth {
		img = resize.Resize(maxWidth, 0, img, resize.Bilinear)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: SnapshotQuality}); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}
