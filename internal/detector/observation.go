package detector

import "fmt"

// BoundingBox is an axis-aligned text region in frame pixel coordinates
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate checks if the BoundingBox has valid values
func (bb BoundingBox) Validate() error {
	if bb.Width < 0 {
		return fmt.Errorf("width cannot be negative")
	}

	if bb.Height < 0 {
		return fmt.Errorf("height cannot be negative")
	}

	return nil
}

// Observation represents a single OCR text detection in a single frame,
// before any temporal grouping. Text may be empty or whitespace-only;
// downstream grouping tolerates it.
type Observation struct {
	FrameIndex int         `json:"frame_index"`
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
}

// Validate checks if the Observation has valid values
func (o *Observation) Validate() error {
	if o.FrameIndex < 0 {
		return fmt.Errorf("frame_index cannot be negative")
	}

	if o.Confidence < 0.0 || o.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0")
	}

	return nil
}

// QuadToBoundingBox converts the four corner points reported by an OCR
// engine into an axis-aligned (x, y, width, height) box
func QuadToBoundingBox(points [4][2]int) BoundingBox {
	minX, minY := points[0][0], points[0][1]
	maxX, maxY := minX, minY

	for _, p := range points[1:] {
		if p[0] < minX {
			minX = p[0]
		}
		if p[0] > maxX {
			maxX = p[0]
		}
		if p[1] < minY {
			minY = p[1]
		}
		if p[1] > maxY {
			maxY = p[1]
		}
	}

	return BoundingBox{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}
