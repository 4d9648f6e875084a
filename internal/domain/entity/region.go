package entity

import "image"

// DefaultSampleSize сторона квадрата, по которому определяется цвет.
const DefaultSampleSize = 20

// CenterRegion возвращает квадрат size×size в центре кадра, обрезанный по его границам.
func CenterRegion(bounds image.Rectangle, size int) image.Rectangle {
	x0 := bounds.Min.X + bounds.Dx()/2 - size/2
	y0 := bounds.Min.Y + bounds.Dy()/2 - size/2
	return image.Rect(x0, y0, x0+size, y0+size).Intersect(bounds)
}
