package entity

import "errors"

var (
	// ErrInsufficientSamples ни один кадр фона не удалось захватить.
	ErrInsufficientSamples = errors.New("no usable background frames captured")
	// ErrDimensionMismatch размеры кадра, маски и фона не совпадают.
	ErrDimensionMismatch = errors.New("frame dimensions mismatch")
	// ErrRegionOutOfBounds область выборки пустая или выходит за кадр.
	ErrRegionOutOfBounds = errors.New("sample region is empty or out of frame bounds")
	// ErrInvalidColorRange нарушен инвариант lower <= upper.
	ErrInvalidColorRange = errors.New("invalid color range")
)
