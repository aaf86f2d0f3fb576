package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"videosubtranslator/internal/detector"
)

func newTestGrouper(t *testing.T, cfg Config) *Grouper {
	t.Helper()
	g, err := NewGrouper(cfg)
	require.NoError(t, err)
	return g
}

func TestNewGrouper_RejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"threshold above one", Config{SimilarityThreshold: 1.5, MinSegmentFrames: 3, MaxGapFrames: 2}},
		{"threshold negative", Config{SimilarityThreshold: -0.1, MinSegmentFrames: 3, MaxGapFrames: 2}},
		{"zero min segment frames", Config{SimilarityThreshold: 0.8, MinSegmentFrames: 0, MaxGapFrames: 2}},
		{"negative max gap", Config{SimilarityThreshold: 0.8, MinSegmentFrames: 3, MaxGapFrames: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			g, err := NewGrouper(tt.cfg)

			// Assert
			assert.Error(t, err)
			assert.Nil(t, g)
			assert.Contains(t, err.Error(), "invalid grouper configuration")
		})
	}
}

func TestGrouper_Group_StableRun(t *testing.T) {
	// Arrange - scenario: three identical consecutive readings
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 3, MaxGapFrames: 0})
	observations := []detector.Observation{
		obs(0, "Hi", 0, 0, 10, 10),
		obs(1, "Hi", 0, 0, 10, 10),
		obs(2, "Hi", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].StartFrame)
	assert.Equal(t, 2, segments[0].EndFrame)
	assert.Equal(t, 3, segments[0].FrameCount)
	assert.Equal(t, "Hi", segments[0].Text)
}

func TestGrouper_Group_ShortSegmentDiscarded(t *testing.T) {
	// Arrange - same run but the minimum is higher than the run length
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 5, MaxGapFrames: 0})
	observations := []detector.Observation{
		obs(0, "Hi", 0, 0, 10, 10),
		obs(1, "Hi", 0, 0, 10, 10),
		obs(2, "Hi", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	assert.Empty(t, segments)
}

func TestGrouper_Group_DissimilarTextSplits(t *testing.T) {
	// Arrange - "Hello" and "World" fall below the threshold
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 2})
	observations := []detector.Observation{
		obs(0, "Hello", 0, 0, 10, 10),
		obs(1, "World", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert - two one-frame segments
	require.Len(t, segments, 2)
	assert.Equal(t, "Hello", segments[0].Text)
	assert.Equal(t, 1, segments[0].FrameCount)
	assert.Equal(t, "World", segments[1].Text)
	assert.Equal(t, 1, segments[1].FrameCount)
}

func TestGrouper_Group_EmptyStream(t *testing.T) {
	// Arrange
	g := newTestGrouper(t, DefaultConfig())

	// Act
	segments := g.Group(nil)

	// Assert - empty input is not an error
	assert.NotNil(t, segments)
	assert.Empty(t, segments)
}

func TestGrouper_Group_GapWithinTolerance(t *testing.T) {
	// Arrange - MaxGapFrames counts skipped frames, so with tolerance 2 a
	// jump from frame 1 to frame 4 (two frames skipped) still continues
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 2})
	observations := []detector.Observation{
		obs(0, "Hi", 0, 0, 10, 10),
		obs(1, "Hi", 0, 0, 10, 10),
		obs(4, "Hi", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	require.Len(t, segments, 1)
	assert.Equal(t, 0, segments[0].StartFrame)
	assert.Equal(t, 4, segments[0].EndFrame)
	assert.Equal(t, 3, segments[0].FrameCount)
}

func TestGrouper_Group_GapBeyondToleranceSplits(t *testing.T) {
	// Arrange - jump from frame 1 to frame 5 skips three frames
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 2})
	observations := []detector.Observation{
		obs(0, "Hi", 0, 0, 10, 10),
		obs(1, "Hi", 0, 0, 10, 10),
		obs(5, "Hi", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	require.Len(t, segments, 2)
	assert.Equal(t, 1, segments[0].EndFrame)
	assert.Equal(t, 5, segments[1].StartFrame)
}

func TestGrouper_Group_MostRecentTextSurvives(t *testing.T) {
	// Arrange - readings drift but stay above the threshold
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 0})
	observations := []detector.Observation{
		obs(0, "Hello there", 0, 0, 10, 10),
		obs(1, "Hello therc", 0, 0, 10, 10),
		obs(2, "Hcllo therc", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert - last observation's literal text wins
	require.Len(t, segments, 1)
	assert.Equal(t, "Hcllo therc", segments[0].Text)
}

func TestGrouper_Group_EmptyTextNeverContinues(t *testing.T) {
	// Arrange - similarity against empty text is 0, so a blank reading
	// always breaks the open segment
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.5, MinSegmentFrames: 1, MaxGapFrames: 2})
	observations := []detector.Observation{
		obs(0, "Hi", 0, 0, 10, 10),
		obs(1, "", 0, 0, 10, 10),
		obs(2, "Hi", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	require.Len(t, segments, 3)
	assert.Equal(t, "", segments[1].Text)
}

func TestGrouper_Group_Deterministic(t *testing.T) {
	// Arrange
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 2, MaxGapFrames: 1})
	observations := []detector.Observation{
		obs(0, "First line", 10, 400, 200, 40),
		obs(1, "First line", 12, 402, 198, 40),
		obs(2, "First linc", 11, 401, 199, 41),
		obs(6, "Second line", 10, 400, 220, 40),
		obs(7, "Second line", 10, 400, 220, 40),
	}

	// Act
	first := g.Group(observations)
	second := g.Group(observations)

	// Assert
	assert.Equal(t, first, second)
}

func TestGrouper_Group_MinimumLengthFilterHolds(t *testing.T) {
	// Arrange - mix of long and short runs
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 3, MaxGapFrames: 0})
	observations := []detector.Observation{
		obs(0, "Keep me", 0, 0, 10, 10),
		obs(1, "Keep me", 0, 0, 10, 10),
		obs(2, "Keep me", 0, 0, 10, 10),
		obs(3, "Blip", 0, 0, 10, 10),
		obs(4, "Keep me too", 0, 0, 10, 10),
		obs(5, "Keep me too", 0, 0, 10, 10),
		obs(6, "Keep me too", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert - every survivor meets the minimum, the blip is gone
	require.Len(t, segments, 2)
	for _, seg := range segments {
		assert.GreaterOrEqual(t, seg.FrameCount, 3)
	}
}

func TestGrouper_Group_MalformedBBoxPassesThrough(t *testing.T) {
	// Arrange - negative width is not validated by the grouper
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 0})
	observations := []detector.Observation{
		obs(0, "Hi", 5, 5, -10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert
	require.Len(t, segments, 1)
	assert.Equal(t, -10, segments[0].BBox.Width)
}

func TestGrouper_SetSimilarityFunc(t *testing.T) {
	// Arrange - a metric that treats everything as identical
	g := newTestGrouper(t, Config{SimilarityThreshold: 0.8, MinSegmentFrames: 1, MaxGapFrames: 0})
	g.SetSimilarityFunc(func(a, b string) float64 { return 1.0 })
	observations := []detector.Observation{
		obs(0, "Hello", 0, 0, 10, 10),
		obs(1, "World", 0, 0, 10, 10),
	}

	// Act
	segments := g.Group(observations)

	// Assert - one segment despite dissimilar text
	require.Len(t, segments, 1)
	assert.Equal(t, "World", segments[0].Text)
}

func TestNewGrouperWithLogger_NilLoggerFallsBack(t *testing.T) {
	// Act
	g, err := NewGrouperWithLogger(DefaultConfig(), nil)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestNewGrouperWithLogger_UsesProvidedLogger(t *testing.T) {
	// Act
	g, err := NewGrouperWithLogger(DefaultConfig(), zap.NewNop())

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, g)
}
