package wallpaper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"math"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageProcessor interface defines the image processing operations.
type ImageProcessor interface {
	DecodeImage(ctx context.Context, imgBytes []byte) (image.Image, string, error)
	EncodeImage(ctx context.Context, img image.Image, format string) ([]byte, error)
	FitImage(ctx context.Context, img image.Image) (image.Image, error)
}

// errImageIncompatible is returned by FitImage when the image cannot cover the desktop.
var errImageIncompatible = errors.New("image not compatible with smart fit")

// smartImageProcessor is an image processor that uses smart cropping.
type smartImageProcessor struct {
	os              OS
	aspectThreshold float64
	resampler       imaging.ResampleFilter
}

func newSmartImageProcessor(osImpl OS) *smartImageProcessor {
	return &smartImageProcessor{
		os:              osImpl,
		aspectThreshold: 0.9,
		resampler:       imaging.Lanczos,
	}
}

// DecodeImage decodes an image from a byte slice, honoring EXIF orientation.
// It returns the detected format name ("jpeg", "png", "gif", "webp", "bmp").
func (c *smartImageProcessor) DecodeImage(ctx context.Context, imgBytes []byte) (image.Image, string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(imgBytes), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("decoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// EncodeImage encodes an image in the given format. Formats without an encoder
// (webp) are written as BMP.
func (c *smartImageProcessor) EncodeImage(ctx context.Context, img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	switch format {
	case "jpeg":
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95))
	case "png":
		err = imaging.Encode(&buf, img, imaging.PNG)
	case "gif":
		err = imaging.Encode(&buf, img, imaging.GIF)
	default:
		err = bmp.Encode(&buf, img)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FitImage crops and resizes img to the primary desktop dimension.
func (c *smartImageProcessor) FitImage(ctx context.Context, img image.Image) (image.Image, error) {
	systemWidth, systemHeight, err := c.os.getDesktopDimension()
	if err != nil {
		return nil, fmt.Errorf("getting desktop dimensions: %w", err)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	imageWidth := img.Bounds().Dx()
	imageHeight := img.Bounds().Dy()
	systemAspect := float64(systemWidth) / float64(systemHeight)
	imageAspect := float64(imageWidth) / float64(imageHeight)
	aspectDiff := math.Abs(systemAspect - imageAspect)

	r := &resizer{resampler: c.resampler}

	switch {
	case imageWidth < systemWidth || imageHeight < systemHeight || aspectDiff > c.aspectThreshold:
		return nil, errImageIncompatible
	case imageWidth == systemWidth && imageHeight == systemHeight:
		return img, nil
	case imageAspect == systemAspect:
		resizedImg := r.resizeWithContext(ctx, img, uint(systemWidth), uint(systemHeight))
		if resizedImg == nil {
			return nil, ctx.Err()
		}
		return resizedImg, nil
	default:
		croppedImg, err := c.cropImage(ctx, img, systemWidth, systemHeight)
		if err != nil {
			return nil, fmt.Errorf("cropping image: %w", err)
		}
		return croppedImg, nil
	}
}

// cropImage finds the most interesting width x height region and scales it to that size.
func (c *smartImageProcessor) cropImage(ctx context.Context, img image.Image, width, height int) (image.Image, error) {
	r := &resizer{resampler: c.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	go func() {
		topCrop, err := analyzer.FindBestCrop(img, width, height)
		resultChan <- cropResult{crop: topCrop, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("finding best crop: %w", result.err)
		}

		cropped := imaging.Crop(img, result.crop)
		resizedImg := r.resizeWithContext(ctx, cropped, uint(width), uint(height))
		if resizedImg == nil {
			return nil, ctx.Err()
		}
		return resizedImg, nil
	}
}

// resizer implements the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

// Resize has no context; smartcrop.Resizer does not take one.
func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

// resizeWithContext returns nil if ctx is done before the resize finishes.
func (r *resizer) resizeWithContext(ctx context.Context, img image.Image, width, height uint) image.Image {
	resultChan := make(chan image.Image, 1)

	go func() {
		resultChan <- imaging.Resize(img, int(width), int(height), r.resampler)
	}()

	select {
	case <-ctx.Done():
		return nil
	case result := <-resultChan:
		return result
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
