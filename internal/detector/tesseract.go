package detector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// tesseractLanguages maps pipeline language codes to tesseract traineddata names
var tesseractLanguages = map[string]string{
	"en": "eng",
	"uk": "ukr",
	"ru": "rus",
}

// TesseractDetector implements Detector on top of the Tesseract OCR engine
type TesseractDetector struct {
	client *gosseract.Client
	logger *zap.Logger
}

// NewTesseractDetector creates a TesseractDetector for the given pipeline
// language code
func NewTesseractDetector(lang string) (*TesseractDetector, error) {
	return NewTesseractDetectorWithLogger(lang, nil)
}

// NewTesseractDetectorWithLogger creates a TesseractDetector with a custom logger
func NewTesseractDetectorWithLogger(lang string, logger *zap.Logger) (*TesseractDetector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(tesseractLanguage(lang)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", lang, err)
	}

	return &TesseractDetector{
		client: client,
		logger: logger,
	}, nil
}

// DetectFrame runs OCR over one raw bgr24 frame and returns line-level
// observations in pipeline coordinates
func (d *TesseractDetector) DetectFrame(ctx context.Context, frameIndex int, frame []byte, width, height int) ([]Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded, err := encodeBGRFrame(frame, width, height)
	if err != nil {
		return nil, err
	}

	if err := d.client.SetImageFromBytes(encoded); err != nil {
		return nil, fmt.Errorf("failed to load frame %d into tesseract: %w", frameIndex, err)
	}

	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed on frame %d: %w", frameIndex, err)
	}

	observations := make([]Observation, 0, len(boxes))
	for _, box := range boxes {
		observations = append(observations, Observation{
			FrameIndex: frameIndex,
			Text:       box.Word,
			BBox: BoundingBox{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
			Confidence: box.Confidence / 100.0, // Tesseract reports 0-100
		})
	}

	d.logger.Debug("OCR completed for frame",
		zap.Int("frame_index", frameIndex),
		zap.Int("detections", len(observations)))

	return observations, nil
}

// Close releases the underlying tesseract client
func (d *TesseractDetector) Close() error {
	return d.client.Close()
}

// tesseractLanguage resolves a pipeline language code to a traineddata
// name, passing unknown codes through unchanged
func tesseractLanguage(lang string) string {
	if mapped, ok := tesseractLanguages[lang]; ok {
		return mapped
	}
	return lang
}

// encodeBGRFrame converts a raw bgr24 frame into a PNG for tesseract
func encodeBGRFrame(frame []byte, width, height int) ([]byte, error) {
	if len(frame) != width*height*3 {
		return nil, fmt.Errorf("frame size mismatch: got %d bytes, want %d", len(frame), width*height*3)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			src := (y*width + x) * 3
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = frame[src+2] // R
			img.Pix[dst+1] = frame[src+1] // G
			img.Pix[dst+2] = frame[src+0] // B
			img.Pix[dst+3] = 255
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	return buf.Bytes(), nil
}
