package vision

import "invisibility-cloak/internal/domain/entity"

// Erode сужает маску прямоугольным элементом 3×3. Соседи за пределами кадра не учитываются.
func Erode(m entity.Mask, iterations int) entity.Mask {
	for i := 0; i < iterations; i++ {
		m = morph3x3(m, true)
	}
	return m
}

// Dilate расширяет маску прямоугольным элементом 3×3.
func Dilate(m entity.Mask, iterations int) entity.Mask {
	for i := 0; i < iterations; i++ {
		m = morph3x3(m, false)
	}
	return m
}

// Open морфологическое открытие: iterations эрозий, затем столько же дилатаций.
func Open(m entity.Mask, iterations int) entity.Mask {
	return Dilate(Erode(m, iterations), iterations)
}

// morph3x3 при erode пиксель остаётся, если все соседи отмечены; иначе отмечается, если отмечен хоть один.
func morph3x3(src entity.Mask, erode bool) entity.Mask {
	w, h := src.Width(), src.Height()
	dst := entity.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hit := erode
		window:
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					if src.At(xx, yy) != erode {
						hit = !erode
						break window
					}
				}
			}
			dst.Set(x, y, hit)
		}
	}
	return dst
}
