package renderer

import (
	"fmt"

	"videosubtranslator/internal/detector"
)

// TranslatedSegment is a finalized subtitle segment paired with its
// translation, ready for rendering
type TranslatedSegment struct {
	StartFrame     int                  `json:"start_frame"`
	EndFrame       int                  `json:"end_frame"`
	BBox           detector.BoundingBox `json:"bbox"`
	OriginalText   string               `json:"original_text"`
	TranslatedText string               `json:"translated_text"`
}

// Validate checks if the TranslatedSegment has valid values
func (ts *TranslatedSegment) Validate() error {
	if ts.StartFrame < 0 {
		return fmt.Errorf("start_frame cannot be negative")
	}

	if ts.EndFrame < ts.StartFrame {
		return fmt.Errorf("end_frame cannot be before start_frame")
	}

	return nil
}

// BuildFrameLookup indexes segments by frame number for O(1) access during
// the render pass. Later segments win on overlapping frames.
func BuildFrameLookup(segments []TranslatedSegment) map[int]*TranslatedSegment {
	lookup := make(map[int]*TranslatedSegment)
	for i := range segments {
		seg := &segments[i]
		for frame := seg.StartFrame; frame <= seg.EndFrame; frame++ {
			lookup[frame] = seg
		}
	}
	return lookup
}
