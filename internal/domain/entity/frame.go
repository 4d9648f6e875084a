package entity

import (
	"image"
	"image/color"
)

// Frame кадр видеопотока. Альфа-канал при чтении игнорируется.
type Frame struct {
	Index int         // порядковый номер кадра в источнике
	Image *image.RGBA // пиксели кадра
}

// NewFrame создаёт пустой (чёрный, непрозрачный) кадр заданного размера.
func NewFrame(width, height int) Frame {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return Frame{Image: img}
}

// NewUniformFrame создаёт кадр, залитый одним цветом.
func NewUniformFrame(width, height int, c color.RGBA) Frame {
	f := NewFrame(width, height)
	f.Fill(f.Bounds(), c)
	return f
}

// Empty сообщает, что кадр не содержит пикселей.
func (f Frame) Empty() bool {
	return f.Image == nil || f.Image.Bounds().Empty()
}

// Bounds возвращает границы кадра.
func (f Frame) Bounds() image.Rectangle {
	if f.Image == nil {
		return image.Rectangle{}
	}
	return f.Image.Bounds()
}

// Width ширина кадра в пикселях.
func (f Frame) Width() int { return f.Bounds().Dx() }

// Height высота кадра в пикселях.
func (f Frame) Height() int { return f.Bounds().Dy() }

// SameSize сравнивает размеры двух кадров.
func (f Frame) SameSize(other Frame) bool {
	return f.Width() == other.Width() && f.Height() == other.Height()
}

// RGB возвращает цвет пикселя в координатах относительно левого верхнего угла кадра.
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	i := f.offset(x, y)
	p := f.Image.Pix[i : i+3 : i+3]
	return p[0], p[1], p[2]
}

// SetRGB записывает цвет пикселя, альфа всегда 255.
func (f Frame) SetRGB(x, y int, r, g, b uint8) {
	i := f.offset(x, y)
	p := f.Image.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, 0xff
}

// Fill заливает прямоугольник цветом. Используется в основном тестами и оверлеем.
func (f Frame) Fill(rect image.Rectangle, c color.RGBA) {
	rect = rect.Intersect(image.Rect(0, 0, f.Width(), f.Height()))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			f.SetRGB(x, y, c.R, c.G, c.B)
		}
	}
}

// Clone возвращает независимую копию кадра.
func (f Frame) Clone() Frame {
	if f.Image == nil {
		return f
	}
	img := image.NewRGBA(f.Image.Rect)
	copy(img.Pix, f.Image.Pix)
	return Frame{Index: f.Index, Image: img}
}

func (f Frame) offset(x, y int) int {
	origin := f.Image.Rect.Min
	return f.Image.PixOffset(origin.X+x, origin.Y+y)
}
