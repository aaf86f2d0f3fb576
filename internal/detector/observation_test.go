package detector

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservation_Creation(t *testing.T) {
	// Arrange
	text := "Hello subtitle"
	bbox := BoundingBox{X: 100, Y: 400, Width: 200, Height: 40}

	// Act
	obs := Observation{
		FrameIndex: 42,
		Text:       text,
		BBox:       bbox,
		Confidence: 0.93,
	}

	// Assert
	assert.Equal(t, 42, obs.FrameIndex)
	assert.Equal(t, text, obs.Text)
	assert.Equal(t, bbox, obs.BBox)
	assert.Equal(t, 0.93, obs.Confidence)
}

func TestObservation_JSONMarshaling(t *testing.T) {
	// Arrange
	obs := Observation{
		FrameIndex: 7,
		Text:       "test",
		BBox:       BoundingBox{X: 1, Y: 2, Width: 3, Height: 4},
		Confidence: 0.5,
	}

	// Act
	jsonData, err := json.Marshal(obs)

	// Assert
	assert.NoError(t, err)
	expected := `{"frame_index":7,"text":"test","bbox":{"x":1,"y":2,"width":3,"height":4},"confidence":0.5}`
	assert.JSONEq(t, expected, string(jsonData))
}

func TestObservation_Validate_ValidData(t *testing.T) {
	// Arrange
	obs := Observation{FrameIndex: 0, Text: "", Confidence: 0.8}

	// Act
	err := obs.Validate()

	// Assert - empty text is tolerated
	assert.NoError(t, err)
}

func TestObservation_Validate_NegativeFrameIndex(t *testing.T) {
	// Arrange
	obs := Observation{FrameIndex: -1, Confidence: 0.8}

	// Act
	err := obs.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "frame_index cannot be negative")
}

func TestObservation_Validate_ConfidenceOutOfRange(t *testing.T) {
	// Arrange
	obs := Observation{FrameIndex: 0, Confidence: 1.5}

	// Act
	err := obs.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "confidence must be between 0.0 and 1.0")
}

func TestBoundingBox_Validate_NegativeDimensions(t *testing.T) {
	// Arrange
	bb := BoundingBox{X: 0, Y: 0, Width: -5, Height: 10}

	// Act
	err := bb.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "width cannot be negative")
}

func TestQuadToBoundingBox(t *testing.T) {
	// Arrange - corner points in OCR engine order
	points := [4][2]int{{100, 400}, {300, 400}, {300, 440}, {100, 440}}

	// Act
	bb := QuadToBoundingBox(points)

	// Assert
	assert.Equal(t, BoundingBox{X: 100, Y: 400, Width: 200, Height: 40}, bb)
}

func TestQuadToBoundingBox_SkewedQuad(t *testing.T) {
	// Arrange - slightly rotated text region
	points := [4][2]int{{102, 398}, {298, 402}, {300, 442}, {100, 438}}

	// Act
	bb := QuadToBoundingBox(points)

	// Assert - envelope of all four corners
	assert.Equal(t, BoundingBox{X: 100, Y: 398, Width: 200, Height: 44}, bb)
}
