package segment

import "fmt"

// Config holds the grouping and merging thresholds. Invalid values are
// rejected when a Grouper or Merger is constructed, never mid-pass.
type Config struct {
	// SimilarityThreshold is the minimum text similarity, in [0, 1],
	// required to fold an observation into the open segment.
	SimilarityThreshold float64
	// MinSegmentFrames is the minimum number of folded observations for a
	// segment to survive grouping; shorter segments are detection noise.
	MinSegmentFrames int
	// MaxGapFrames is the maximum number of skipped frames between two
	// observations (or two segments) still considered continuous.
	MaxGapFrames int
}

// DefaultConfig returns the reference thresholds
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.8,
		MinSegmentFrames:    3,
		MaxGapFrames:        2,
	}
}

// Validate checks if the Config has valid values
func (c Config) Validate() error {
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return fmt.Errorf("similarity threshold must be between 0.0 and 1.0, got %v", c.SimilarityThreshold)
	}

	if c.MinSegmentFrames < 1 {
		return fmt.Errorf("min segment frames must be at least 1, got %d", c.MinSegmentFrames)
	}

	if c.MaxGapFrames < 0 {
		return fmt.Errorf("max gap frames cannot be negative, got %d", c.MaxGapFrames)
	}

	return nil
}
