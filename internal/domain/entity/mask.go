package entity

import "image"

// Значения ячеек маски.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// Mask бинарная маска совпадения цвета. Хранится как *image.Gray со значениями 0 и 255.
type Mask struct {
	gray *image.Gray
}

// NewMask создаёт пустую маску.
func NewMask(width, height int) Mask {
	return Mask{gray: image.NewGray(image.Rect(0, 0, width, height))}
}

// MaskFromBytes строит маску из построчного буфера; любое ненулевое значение считается совпадением.
func MaskFromBytes(width, height int, data []byte) Mask {
	m := NewMask(width, height)
	for i := 0; i < width*height && i < len(data); i++ {
		if data[i] != 0 {
			m.gray.Pix[i] = MaskOn
		}
	}
	return m
}

// Width ширина маски.
func (m Mask) Width() int {
	if m.gray == nil {
		return 0
	}
	return m.gray.Rect.Dx()
}

// Height высота маски.
func (m Mask) Height() int {
	if m.gray == nil {
		return 0
	}
	return m.gray.Rect.Dy()
}

// At сообщает, отмечен ли пиксель.
func (m Mask) At(x, y int) bool {
	return m.gray.Pix[y*m.gray.Stride+x] != MaskOff
}

// Set отмечает или снимает отметку с пикселя.
func (m Mask) Set(x, y int, on bool) {
	v := MaskOff
	if on {
		v = MaskOn
	}
	m.gray.Pix[y*m.gray.Stride+x] = v
}

// Count число отмеченных пикселей.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.gray.Pix {
		if v != MaskOff {
			n++
		}
	}
	return n
}

// Equal сравнивает две маски поячеечно.
func (m Mask) Equal(other Mask) bool {
	if m.Width() != other.Width() || m.Height() != other.Height() {
		return false
	}
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.At(x, y) != other.At(x, y) {
				return false
			}
		}
	}
	return true
}

// Gray отдаёт маску как изображение в оттенках серого.
func (m Mask) Gray() *image.Gray {
	return m.gray
}

// Frame превращает маску в чёрно-белый кадр для вывода в окно.
func (m Mask) Frame() Frame {
	f := NewFrame(m.Width(), m.Height())
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			v := m.gray.Pix[y*m.gray.Stride+x]
			f.SetRGB(x, y, v, v, v)
		}
	}
	return f
}
