//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/draw"
	"log"

	"gocv.io/x/gocv"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// GoCVMaskBuilder строит маску средствами OpenCV.
type GoCVMaskBuilder struct {
	OpenIterations   int
	DilateIterations int
	kernel           gocv.Mat
}

// NewGoCVMaskBuilder создаёт построитель с ядром 3×3.
func NewGoCVMaskBuilder() (*GoCVMaskBuilder, error) {
	return &GoCVMaskBuilder{
		OpenIterations:   2,
		DilateIterations: 1,
		kernel:           gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}, nil
}

// Build порог InRange в HSV, открытие и дилатация.
func (b *GoCVMaskBuilder) Build(frame entity.Frame, rng entity.ColorRange) entity.Mask {
	src, err := FrameToMat(frame)
	if err != nil {
		log.Printf("gocv mask: %v", err)
		return entity.NewMask(frame.Width(), frame.Height())
	}
	defer src.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, hsvScalar(rng.Lower), hsvScalar(rng.Upper), &mask)

	for i := 0; i < b.OpenIterations; i++ {
		gocv.Erode(mask, &mask, b.kernel)
	}
	for i := 0; i < b.OpenIterations+b.DilateIterations; i++ {
		gocv.Dilate(mask, &mask, b.kernel)
	}

	return entity.MaskFromBytes(mask.Cols(), mask.Rows(), mask.ToBytes())
}

// Close освобождает ядро.
func (b *GoCVMaskBuilder) Close() error {
	return b.kernel.Close()
}

// GoCVCompositor подменяет пиксели через копирование по маске.
type GoCVCompositor struct{}

// NewGoCVCompositor создаёт компоновщик OpenCV.
func NewGoCVCompositor() (*GoCVCompositor, error) {
	return &GoCVCompositor{}, nil
}

// Composite копирует фон поверх кадра там, где маска отмечена.
func (c *GoCVCompositor) Composite(frame entity.Frame, mask entity.Mask, background entity.Frame) (entity.Frame, error) {
	if err := checkDimensions(frame, mask, background); err != nil {
		return entity.Frame{}, err
	}

	fm, err := FrameToMat(frame)
	if err != nil {
		return entity.Frame{}, err
	}
	defer fm.Close()

	bm, err := FrameToMat(background)
	if err != nil {
		return entity.Frame{}, err
	}
	defer bm.Close()

	mm, err := gocv.NewMatFromBytes(mask.Height(), mask.Width(), gocv.MatTypeCV8U, mask.Gray().Pix)
	if err != nil {
		return entity.Frame{}, err
	}
	defer mm.Close()

	out := fm.Clone()
	defer out.Close()
	bm.CopyToWithMask(&out, mm)

	return MatToFrame(out, frame.Index)
}

// FrameToMat превращает кадр в BGR gocv.Mat.
func FrameToMat(frame entity.Frame) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), errors.New("empty frame")
	}
	return gocv.ImageToMatRGB(frame.Image)
}

// MatToFrame превращает 3-канальный gocv.Mat в кадр.
func MatToFrame(mat gocv.Mat, index int) (entity.Frame, error) {
	if mat.Empty() {
		return entity.Frame{}, errors.New("empty mat")
	}
	img, err := mat.ToImage()
	if err != nil {
		return entity.Frame{}, err
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return entity.Frame{Index: index, Image: rgba}, nil
}

func hsvScalar(c entity.HSV) gocv.Scalar {
	return gocv.NewScalar(float64(c.H), float64(c.S), float64(c.V), 0)
}

var (
	_ port.MaskBuilder = (*GoCVMaskBuilder)(nil)
	_ port.Compositor  = (*GoCVCompositor)(nil)
)
