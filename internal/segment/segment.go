package segment

import (
	"fmt"

	"videosubtranslator/internal/detector"
)

// Segment represents a temporally coherent span of frames judged to contain
// the same subtitle text.
//
// While the Grouper accumulates observations, FrameCount is the number of
// observations folded in (gaps are tolerated, so it is not necessarily
// EndFrame-StartFrame+1). After the Merger coalesces two segments it is
// recomputed as the contiguous frame span; callers must not assume it still
// counts observations at that point.
type Segment struct {
	StartFrame int                  `json:"start_frame"`
	EndFrame   int                  `json:"end_frame"`
	FrameCount int                  `json:"frame_count"`
	Text       string               `json:"text"`
	BBox       detector.BoundingBox `json:"bbox"`
}

// NewSegment creates a Segment seeded with a single observation
func NewSegment(obs detector.Observation) Segment {
	return Segment{
		StartFrame: obs.FrameIndex,
		EndFrame:   obs.FrameIndex,
		FrameCount: 1,
		Text:       obs.Text,
		BBox:       obs.BBox,
	}
}

// Fold absorbs a qualifying observation into the segment. The text is
// overwritten with the most recent reading (the Merger's length heuristic
// recovers text quality later) and the bounding box becomes the
// integer-rounded pairwise average of the current box and the new one.
func (s *Segment) Fold(obs detector.Observation) {
	s.EndFrame = obs.FrameIndex
	s.FrameCount++
	s.Text = obs.Text
	s.BBox = detector.BoundingBox{
		X:      (s.BBox.X + obs.BBox.X) / 2,
		Y:      (s.BBox.Y + obs.BBox.Y) / 2,
		Width:  (s.BBox.Width + obs.BBox.Width) / 2,
		Height: (s.BBox.Height + obs.BBox.Height) / 2,
	}
}

// Validate checks if the Segment has valid values
func (s *Segment) Validate() error {
	if s.StartFrame < 0 {
		return fmt.Errorf("start_frame cannot be negative")
	}

	if s.EndFrame < s.StartFrame {
		return fmt.Errorf("end_frame cannot be before start_frame")
	}

	if s.FrameCount < 1 {
		return fmt.Errorf("frame_count must be at least 1")
	}

	return nil
}
