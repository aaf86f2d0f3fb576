package detector

import (
	"context"

	"go.uber.org/zap"
)

// Detector produces per-frame text observations, already restricted to the
// subtitle region of interest. Implementations wrap an external OCR engine;
// the grouping pipeline only depends on this interface.
type Detector interface {
	// DetectFrame returns zero or more observations for the given frame.
	// frame holds raw bgr24 pixel data of width*height*3 bytes.
	DetectFrame(ctx context.Context, frameIndex int, frame []byte, width, height int) ([]Observation, error)
}

// RegionFilter restricts raw OCR detections to the subtitle band at the
// bottom of the frame and drops low-confidence readings
type RegionFilter struct {
	bottomRatio   float64
	minConfidence float64
	logger        *zap.Logger
}

// NewRegionFilter creates a RegionFilter keeping detections whose vertical
// center falls within the bottom bottomRatio of the frame and whose
// confidence is at least minConfidence
func NewRegionFilter(bottomRatio, minConfidence float64) *RegionFilter {
	return &RegionFilter{
		bottomRatio:   bottomRatio,
		minConfidence: minConfidence,
		logger:        zap.NewNop(), // Default to no-op logger
	}
}

// NewRegionFilterWithLogger creates a RegionFilter with a custom logger
func NewRegionFilterWithLogger(bottomRatio, minConfidence float64, logger *zap.Logger) *RegionFilter {
	if logger == nil {
		logger = zap.NewNop()
	}
	rf := NewRegionFilter(bottomRatio, minConfidence)
	rf.logger = logger
	return rf
}

// Filter returns the subset of observations lying in the subtitle region
// of a frame with the given height
func (rf *RegionFilter) Filter(observations []Observation, frameHeight int) []Observation {
	thresholdY := float64(frameHeight) * (1.0 - rf.bottomRatio)

	kept := make([]Observation, 0, len(observations))
	for _, obs := range observations {
		if obs.Confidence < rf.minConfidence {
			rf.logger.Debug("dropping low-confidence detection",
				zap.String("text", obs.Text),
				zap.Float64("confidence", obs.Confidence),
				zap.Float64("min_confidence", rf.minConfidence))
			continue
		}

		centerY := float64(obs.BBox.Y) + float64(obs.BBox.Height)/2.0
		if centerY < thresholdY {
			rf.logger.Debug("dropping detection outside subtitle region",
				zap.String("text", obs.Text),
				zap.Float64("center_y", centerY),
				zap.Float64("threshold_y", thresholdY))
			continue
		}

		kept = append(kept, obs)
	}

	return kept
}
