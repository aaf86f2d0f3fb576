package segment

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Merger collapses temporally adjacent or overlapping segments that the
// Grouper split because a disqualifying observation broke the run.
type Merger struct {
	maxGapFrames int
	logger       *zap.Logger
}

// NewMerger creates a Merger with the given gap tolerance
func NewMerger(maxGapFrames int) (*Merger, error) {
	if maxGapFrames < 0 {
		return nil, fmt.Errorf("invalid merger configuration: max gap frames cannot be negative, got %d", maxGapFrames)
	}

	return &Merger{
		maxGapFrames: maxGapFrames,
		logger:       zap.NewNop(), // Default to no-op logger
	}, nil
}

// NewMergerWithLogger creates a Merger with a custom logger
func NewMergerWithLogger(maxGapFrames int, logger *zap.Logger) (*Merger, error) {
	m, err := NewMerger(maxGapFrames)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		m.logger = logger
	}
	return m, nil
}

// Merge sorts segments by start frame and collapses any pair whose frame
// ranges are within the gap tolerance. On a merge the frame count becomes
// the contiguous span end-start+1, the longer text wins, and the earlier
// segment's bounding box is kept unchanged. The input is not modified and
// need not be ordered; the result is start-ascending with no two entries
// within the gap tolerance of each other.
func (m *Merger) Merge(segments []Segment) []Segment {
	if len(segments) == 0 {
		return []Segment{}
	}

	ordered := make([]Segment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartFrame < ordered[j].StartFrame
	})

	merged := []Segment{ordered[0]}

	for _, seg := range ordered[1:] {
		last := &merged[len(merged)-1]

		if seg.StartFrame <= last.EndFrame+m.maxGapFrames {
			if seg.EndFrame > last.EndFrame {
				last.EndFrame = seg.EndFrame
			}
			// Span, not observation count: the merged range is treated as
			// contiguous coverage.
			last.FrameCount = last.EndFrame - last.StartFrame + 1
			if len(seg.Text) > len(last.Text) {
				last.Text = seg.Text
			}

			m.logger.Debug("merged adjacent segments",
				zap.Int("start_frame", last.StartFrame),
				zap.Int("end_frame", last.EndFrame),
				zap.String("text", last.Text))
		} else {
			merged = append(merged, seg)
		}
	}

	m.logger.Debug("merging pass completed",
		zap.Int("input_segments", len(segments)),
		zap.Int("output_segments", len(merged)))

	return merged
}
