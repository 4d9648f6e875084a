package entity

import "image"

// Overlay служебная подпись поверх кадра и, при необходимости, рамка области выборки.
type Overlay struct {
	Lines  []string
	Region image.Rectangle // для пустого прямоугольника рамка не рисуется
}
