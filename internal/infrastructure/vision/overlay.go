package vision

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// Цвета оверлея.
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{A: 255}
	Green = color.RGBA{G: 255, A: 255}
)

// Annotator рисует строки состояния и рамку области выборки.
type Annotator struct {
	Face        font.Face
	TextColor   color.RGBA
	ShadowColor color.RGBA
	BoxColor    color.RGBA
	BoxWidth    int
}

// NewAnnotator создаёт оверлей со встроенным моноширинным шрифтом 7×13.
func NewAnnotator() *Annotator {
	return &Annotator{
		Face:        basicfont.Face7x13,
		TextColor:   White,
		ShadowColor: Black,
		BoxColor:    Green,
		BoxWidth:    2,
	}
}

// Annotate возвращает копию кадра с оверлеем; исходный кадр не меняется.
func (a *Annotator) Annotate(frame entity.Frame, overlay entity.Overlay) entity.Frame {
	out := frame.Clone()
	if out.Empty() {
		return out
	}

	if !overlay.Region.Empty() {
		a.drawBox(out, overlay.Region)
	}

	lineHeight := a.Face.Metrics().Height.Ceil()
	d := &font.Drawer{Dst: out.Image, Face: a.Face}
	origin := out.Bounds().Min
	for i, line := range overlay.Lines {
		y := origin.Y + 8 + lineHeight*(i+1)

		d.Src = image.NewUniform(a.ShadowColor)
		d.Dot = fixed.P(origin.X+11, y+1)
		d.DrawString(line)

		d.Src = image.NewUniform(a.TextColor)
		d.Dot = fixed.P(origin.X+10, y)
		d.DrawString(line)
	}
	return out
}

// drawBox рисует рамку снаружи области, чтобы не перекрывать сам образец.
func (a *Annotator) drawBox(f entity.Frame, r image.Rectangle) {
	for i := 1; i <= a.BoxWidth; i++ {
		o := r.Inset(-i)
		f.Fill(image.Rect(o.Min.X, o.Min.Y, o.Max.X, o.Min.Y+1), a.BoxColor)
		f.Fill(image.Rect(o.Min.X, o.Max.Y-1, o.Max.X, o.Max.Y), a.BoxColor)
		f.Fill(image.Rect(o.Min.X, o.Min.Y, o.Min.X+1, o.Max.Y), a.BoxColor)
		f.Fill(image.Rect(o.Max.X-1, o.Min.Y, o.Max.X, o.Max.Y), a.BoxColor)
	}
}

var _ port.Annotator = (*Annotator)(nil)
