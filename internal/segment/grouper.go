package segment

import (
	"fmt"

	"go.uber.org/zap"

	"videosubtranslator/internal/detector"
	"videosubtranslator/internal/textutil"
)

// Grouper converts a frame-ordered observation stream into candidate
// subtitle segments. It keeps at most one segment open at a time; an
// observation either continues the open segment or closes it and opens a
// fresh one.
type Grouper struct {
	cfg        Config
	similarity textutil.SimilarityFunc
	logger     *zap.Logger
}

// NewGrouper creates a Grouper with the given configuration and the default
// similarity function. Returns an error for out-of-range thresholds.
func NewGrouper(cfg Config) (*Grouper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grouper configuration: %w", err)
	}

	return &Grouper{
		cfg:        cfg,
		similarity: textutil.SimilarityRatio,
		logger:     zap.NewNop(), // Default to no-op logger
	}, nil
}

// NewGrouperWithLogger creates a Grouper with a custom logger
func NewGrouperWithLogger(cfg Config, logger *zap.Logger) (*Grouper, error) {
	g, err := NewGrouper(cfg)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		g.logger = logger
	}
	return g, nil
}

// SetSimilarityFunc replaces the text similarity metric. The function must
// be symmetric and return 0 when either input is empty; nil restores the
// default.
func (g *Grouper) SetSimilarityFunc(fn textutil.SimilarityFunc) {
	if fn == nil {
		fn = textutil.SimilarityRatio
	}
	g.similarity = fn
}

// Group scans observations in the order received and returns the segments
// that survive the minimum-frame filter. The input must be frame-ordered;
// an empty input yields an empty result. Bounding boxes are passed through
// without geometry validation.
func (g *Grouper) Group(observations []detector.Observation) []Segment {
	segments := make([]Segment, 0)
	if len(observations) == 0 {
		return segments
	}

	var current *Segment
	lastFrame := -1

	for _, obs := range observations {
		if current == nil {
			seg := NewSegment(obs)
			current = &seg
			lastFrame = obs.FrameIndex
			continue
		}

		similarity := g.similarity(obs.Text, current.Text)
		gap := obs.FrameIndex - lastFrame

		// The +1 slack converts the raw index delta into skipped frames:
		// consecutive frames have delta 1 but zero frames skipped.
		if similarity >= g.cfg.SimilarityThreshold && gap <= g.cfg.MaxGapFrames+1 {
			current.Fold(obs)
		} else {
			g.logger.Debug("closing segment on break",
				zap.Float64("similarity", similarity),
				zap.Int("gap", gap),
				zap.String("segment_text", current.Text),
				zap.String("observation_text", obs.Text))

			segments = g.emit(segments, *current)
			seg := NewSegment(obs)
			current = &seg
		}
		lastFrame = obs.FrameIndex
	}

	segments = g.emit(segments, *current)

	g.logger.Debug("grouping pass completed",
		zap.Int("observations", len(observations)),
		zap.Int("segments", len(segments)))

	return segments
}

// emit appends a closed segment if it meets the minimum-frame threshold,
// otherwise drops it as detection noise
func (g *Grouper) emit(segments []Segment, seg Segment) []Segment {
	if seg.FrameCount < g.cfg.MinSegmentFrames {
		g.logger.Debug("discarding short segment",
			zap.String("text", seg.Text),
			zap.Int("frame_count", seg.FrameCount),
			zap.Int("min_segment_frames", g.cfg.MinSegmentFrames))
		return segments
	}
	return append(segments, seg)
}
