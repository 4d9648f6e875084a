package vision

import (
	"math"

	"invisibility-cloak/internal/domain/entity"
)

// hsvShift разрядность фиксированной точки в таблицах деления OpenCV.
const hsvShift = 12

// sdivTable[v] = round((255<<12)/v), hdivTable[d] = round((180<<12)/(6d)); нулевые элементы равны 0.
var sdivTable, hdivTable = hsvTables()

func hsvTables() (sdiv, hdiv [256]int) {
	for i := 1; i < 256; i++ {
		sdiv[i] = int(math.RoundToEven(float64(255<<hsvShift) / float64(i)))
		hdiv[i] = int(math.RoundToEven(float64(180<<hsvShift) / (6 * float64(i))))
	}
	return sdiv, hdiv
}

// RGBToHSV переводит 8-битный RGB в HSV так же, как COLOR_BGR2HSV в OpenCV:
// H 0..179 (градусы пополам), S и V 0..255, деление через таблицы с фиксированной точкой.
func RGBToHSV(r, g, b uint8) entity.HSV {
	ri, gi, bi := int(r), int(g), int(b)
	v := max(ri, gi, bi)
	diff := v - min(ri, gi, bi)

	const half = 1 << (hsvShift - 1)
	s := (diff*sdivTable[v] + half) >> hsvShift

	// тон в долях diff на шкале 0..6
	var h int
	switch v {
	case ri:
		h = gi - bi
	case gi:
		h = bi - ri + 2*diff
	default:
		h = ri - gi + 4*diff
	}
	h = (h*hdivTable[diff] + half) >> hsvShift
	if h < 0 {
		h += 180
	}

	return entity.HSV{H: uint8(h), S: uint8(s), V: uint8(v)}
}

// pixelHSV цвет пикселя кадра в HSV.
func pixelHSV(frame entity.Frame, x, y int) entity.HSV {
	return RGBToHSV(frame.RGB(x, y))
}
