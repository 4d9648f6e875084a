package vision

import (
	"fmt"
	"image"
	"log"

	"gonum.org/v1/gonum/stat"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// ColorEstimator определяет диапазон цвета по среднему HSV области.
type ColorEstimator struct {
	Margin entity.Margin
	// MaxHueSpread порог стандартного отклонения тона, выше которого образец считается неоднородным.
	MaxHueSpread float64
}

// NewColorEstimator создаёт оценщик с допусками H±10, S±60, V±60.
func NewColorEstimator() *ColorEstimator {
	return &ColorEstimator{
		Margin:       entity.DefaultMargin,
		MaxHueSpread: 15,
	}
}

// Estimate усредняет HSV пикселей области и строит вокруг среднего диапазон с допусками.
func (e *ColorEstimator) Estimate(frame entity.Frame, region image.Rectangle) (entity.ColorRange, error) {
	bounds := image.Rect(0, 0, frame.Width(), frame.Height())
	if region.Empty() || !region.In(bounds) {
		return entity.ColorRange{}, fmt.Errorf("%w: region %v, frame %dx%d",
			entity.ErrRegionOutOfBounds, region, frame.Width(), frame.Height())
	}

	n := region.Dx() * region.Dy()
	hs := make([]float64, 0, n)
	ss := make([]float64, 0, n)
	vs := make([]float64, 0, n)
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			c := pixelHSV(frame, x, y)
			hs = append(hs, float64(c.H))
			ss = append(ss, float64(c.S))
			vs = append(vs, float64(c.V))
		}
	}

	// дробная часть среднего отбрасывается
	mean := [3]int{int(stat.Mean(hs, nil)), int(stat.Mean(ss, nil)), int(stat.Mean(vs, nil))}
	log.Printf("Detected color (HSV): H=%d, S=%d, V=%d", mean[0], mean[1], mean[2])

	if n > 1 {
		if spread := stat.StdDev(hs, nil); spread > e.MaxHueSpread {
			log.Printf("Warning: sampled region is not uniform (hue stddev %.1f)", spread)
		}
	}

	rng, err := entity.NewColorRange(mean, e.Margin)
	if err != nil {
		return entity.ColorRange{}, fmt.Errorf("estimate color range: %w", err)
	}
	return rng, nil
}

var _ port.ColorEstimator = (*ColorEstimator)(nil)
