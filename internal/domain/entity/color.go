package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Границы каналов HSV в 8-битной конвенции OpenCV.
const (
	MaxHue        = 179
	MaxSaturation = 255
	MaxValue      = 255
)

// HSV цвет в 8-битной конвенции OpenCV: H 0..179, S и V 0..255.
type HSV struct {
	H uint8
	S uint8
	V uint8
}

func (c HSV) String() string {
	return fmt.Sprintf("H=%d, S=%d, V=%d", c.H, c.S, c.V)
}

// ParseHSV разбирает тройку вида "h,s,v".
func ParseHSV(s string) (HSV, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return HSV{}, fmt.Errorf("parse hsv %q: want 3 comma-separated values", s)
	}

	limits := [3]int{MaxHue, MaxSaturation, MaxValue}
	var vals [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return HSV{}, fmt.Errorf("parse hsv %q: %w", s, err)
		}
		if n < 0 || n > limits[i] {
			return HSV{}, fmt.Errorf("parse hsv %q: component %d out of range [0,%d]", s, i, limits[i])
		}
		vals[i] = uint8(n)
	}
	return HSV{H: vals[0], S: vals[1], V: vals[2]}, nil
}

// Margin допуски по каналам вокруг среднего цвета.
type Margin struct {
	H int
	S int
	V int
}

// DefaultMargin узкий допуск по тону и широкий по насыщенности и яркости.
var DefaultMargin = Margin{H: 10, S: 60, V: 60}

// ColorRange диапазон HSV, включающий обе границы.
type ColorRange struct {
	Lower HSV
	Upper HSV
}

// NewColorRange строит диапазон center±margin, обрезанный по допустимым значениям каналов.
func NewColorRange(center [3]int, margin Margin) (ColorRange, error) {
	r := ColorRange{
		Lower: HSV{
			H: clampChannel(center[0]-margin.H, MaxHue),
			S: clampChannel(center[1]-margin.S, MaxSaturation),
			V: clampChannel(center[2]-margin.V, MaxValue),
		},
		Upper: HSV{
			H: clampChannel(center[0]+margin.H, MaxHue),
			S: clampChannel(center[1]+margin.S, MaxSaturation),
			V: clampChannel(center[2]+margin.V, MaxValue),
		},
	}
	if err := r.Validate(); err != nil {
		return ColorRange{}, err
	}
	return r, nil
}

// Validate проверяет lower <= upper по каждому каналу и диапазон тона.
func (r ColorRange) Validate() error {
	if r.Lower.H > MaxHue || r.Upper.H > MaxHue {
		return fmt.Errorf("%w: hue above %d (%s .. %s)", ErrInvalidColorRange, MaxHue, r.Lower, r.Upper)
	}
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return fmt.Errorf("%w: lower exceeds upper (%s .. %s)", ErrInvalidColorRange, r.Lower, r.Upper)
	}
	return nil
}

// Contains проверяет попадание цвета в диапазон.
func (r ColorRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

func (r ColorRange) String() string {
	return fmt.Sprintf("[%s] .. [%s]", r.Lower, r.Upper)
}

func clampChannel(v, limit int) uint8 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return uint8(limit)
	}
	return uint8(v)
}
