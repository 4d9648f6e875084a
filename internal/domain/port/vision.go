package port

import (
	"context"
	"image"

	"invisibility-cloak/internal/domain/entity"
)

// ColorEstimator определяет диапазон цвета по области кадра
type ColorEstimator interface {
	Estimate(frame entity.Frame, region image.Rectangle) (entity.ColorRange, error)
}

// BackgroundBuilder строит эталонный фон по серии кадров
type BackgroundBuilder interface {
	Build(ctx context.Context, source FrameSource, count int) (entity.Frame, error)
}

// MaskBuilder строит очищенную маску совпадения цвета
type MaskBuilder interface {
	Build(frame entity.Frame, rng entity.ColorRange) entity.Mask
}

// Compositor подменяет отмеченные пиксели кадра пикселями фона
type Compositor interface {
	Composite(frame entity.Frame, mask entity.Mask, background entity.Frame) (entity.Frame, error)
}

// Annotator рисует служебный оверлей на копии кадра
type Annotator interface {
	Annotate(frame entity.Frame, overlay entity.Overlay) entity.Frame
}
