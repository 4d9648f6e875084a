package entity

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewColorRange_ClampsToChannelDomain(t *testing.T) {
	r, err := NewColorRange([3]int{5, 230, 30}, DefaultMargin)
	require.NoError(t, err)

	want := ColorRange{
		Lower: HSV{H: 0, S: 170, V: 0},
		Upper: HSV{H: 15, S: 255, V: 90},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Fatalf("unexpected range (-want +got):\n%s", diff)
	}
}

func TestNewColorRange_HueUpperBound(t *testing.T) {
	r, err := NewColorRange([3]int{175, 100, 100}, DefaultMargin)
	require.NoError(t, err)
	require.Equal(t, uint8(165), r.Lower.H)
	require.Equal(t, uint8(MaxHue), r.Upper.H)
}

func TestNewColorRange_RejectsInvertedRange(t *testing.T) {
	// отрицательный допуск переворачивает границы
	_, err := NewColorRange([3]int{100, 100, 100}, Margin{H: -10, S: 10, V: 10})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidColorRange))
}

func TestColorRange_ContainsInclusive(t *testing.T) {
	r := ColorRange{Lower: HSV{10, 20, 30}, Upper: HSV{20, 40, 60}}
	require.True(t, r.Contains(HSV{10, 20, 30}))
	require.True(t, r.Contains(HSV{20, 40, 60}))
	require.True(t, r.Contains(HSV{15, 30, 45}))
	require.False(t, r.Contains(HSV{9, 30, 45}))
	require.False(t, r.Contains(HSV{15, 41, 45}))
	require.False(t, r.Contains(HSV{15, 30, 61}))
}

func TestColorRange_Validate(t *testing.T) {
	require.NoError(t, ColorRange{Lower: HSV{0, 0, 0}, Upper: HSV{179, 255, 255}}.Validate())
	require.ErrorIs(t, ColorRange{Lower: HSV{0, 50, 0}, Upper: HSV{10, 40, 255}}.Validate(), ErrInvalidColorRange)
	require.ErrorIs(t, ColorRange{Lower: HSV{0, 0, 0}, Upper: HSV{200, 255, 255}}.Validate(), ErrInvalidColorRange)
}

func TestParseHSV(t *testing.T) {
	c, err := ParseHSV(" 0, 120 ,70")
	require.NoError(t, err)
	require.Equal(t, HSV{H: 0, S: 120, V: 70}, c)

	_, err = ParseHSV("1,2")
	require.Error(t, err)
	_, err = ParseHSV("180,0,0")
	require.Error(t, err)
	_, err = ParseHSV("a,b,c")
	require.Error(t, err)
}
