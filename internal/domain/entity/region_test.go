package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCenterRegion(t *testing.T) {
	r := CenterRegion(image.Rect(0, 0, 640, 480), DefaultSampleSize)
	require.Equal(t, image.Rect(310, 230, 330, 250), r)
}

func TestCenterRegion_ClippedToSmallFrame(t *testing.T) {
	r := CenterRegion(image.Rect(0, 0, 10, 6), 20)
	require.Equal(t, image.Rect(0, 0, 10, 6), r)
}
