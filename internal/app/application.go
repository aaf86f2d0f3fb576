package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"videosubtranslator/internal/config"
	"videosubtranslator/internal/detector"
	"videosubtranslator/internal/language"
	"videosubtranslator/internal/renderer"
	"videosubtranslator/internal/segment"
	"videosubtranslator/internal/translation"
	"videosubtranslator/internal/video"
)

// Stats summarizes one pipeline run
type Stats struct {
	Segments        int    `json:"segments"`
	FramesProcessed int    `json:"frames_processed"`
	SourceLanguage  string `json:"source_language"`
	TargetLanguage  string `json:"target_language"`
}

// ProgressFunc receives progress updates per pipeline stage; total is 0
// when the frame count is unknown
type ProgressFunc func(stage string, frame, total int)

// frameSource and frameSink abstract the decode and encode sides of a
// frame pass so tests can drive the pipeline without ffmpeg
type frameSource interface {
	Start(ctx context.Context) error
	ReadFrame() ([]byte, error)
	Close() error
}

type frameSink interface {
	Start(ctx context.Context) error
	WriteFrame(frame []byte) error
	Close() error
}

// Application wires the subtitle translation pipeline: detect text per
// frame, group observations into segments, merge adjacent segments, detect
// the source language, translate, and render the output video.
type Application struct {
	config       *config.Configuration
	logger       *zap.Logger
	detector     detector.Detector
	regionFilter *detector.RegionFilter
	grouper      *segment.Grouper
	merger       *segment.Merger
	langDetector *language.Detector
	translator   *translation.Translator
	renderer     *renderer.Renderer

	newFrameSource func(path string, info *video.Info) frameSource
	newFrameSink   func(path string, info *video.Info) frameSink
}

// NewApplication creates an Application with all components initialized
// from the given configuration. det supplies per-frame OCR observations.
func NewApplication(cfg *config.Configuration, det detector.Detector, logger *zap.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if det == nil {
		return nil, fmt.Errorf("detector cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grouping := cfg.GetGroupingConfig()

	grouper, err := segment.NewGrouperWithLogger(grouping, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create grouper: %w", err)
	}

	merger, err := segment.NewMergerWithLogger(grouping.MaxGapFrames, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create merger: %w", err)
	}

	rend, err := renderer.NewRendererWithLogger(cfg.GetRenderMode(), cfg.GetRenderPadding(),
		cfg.GetFontPath(), cfg.GetFontSize(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	var backend translation.Backend
	if cfg.GetUseMockTranslator() {
		backend = translation.NewMockBackend()
	} else {
		backend = translation.NewHTTPBackendWithLogger(cfg.GetTranslationEndpoint(), logger)
	}

	app := &Application{
		config:       cfg,
		logger:       logger,
		detector:     det,
		regionFilter: detector.NewRegionFilterWithLogger(cfg.GetBottomRatio(), cfg.GetMinConfidence(), logger),
		grouper:      grouper,
		merger:       merger,
		langDetector: language.NewDetectorWithLogger(logger),
		translator:   translation.NewTranslatorWithLogger(backend, logger),
		renderer:     rend,
	}
	app.newFrameSource = func(path string, info *video.Info) frameSource {
		reader := video.NewFrameReader(path, info.Width, info.Height, logger)
		reader.SetFFmpegPath(cfg.GetFFmpegPath())
		return reader
	}
	app.newFrameSink = func(path string, info *video.Info) frameSink {
		writer := video.NewFrameWriter(path, info.Width, info.Height, info.FPS, logger)
		writer.SetFFmpegPath(cfg.GetFFmpegPath())
		return writer
	}

	return app, nil
}

// ProcessVideo runs the full pipeline from inputPath to outputPath.
// progress may be nil.
func (app *Application) ProcessVideo(ctx context.Context, inputPath, outputPath string, progress ProgressFunc) (*Stats, error) {
	app.logger.Info("processing video",
		zap.String("input", inputPath),
		zap.String("output", outputPath))

	info, err := video.Probe(ctx, app.config.GetFFprobePath(), inputPath)
	if err != nil {
		return nil, err
	}
	app.logger.Info("probed input video",
		zap.Int("width", info.Width),
		zap.Int("height", info.Height),
		zap.Float64("fps", info.FPS),
		zap.Int("frame_count", info.FrameCount))

	observations, err := app.detectObservations(ctx, inputPath, info, progress)
	if err != nil {
		return nil, err
	}

	segments := app.merger.Merge(app.grouper.Group(observations))
	app.logger.Info("grouped observations into segments",
		zap.Int("observations", len(observations)),
		zap.Int("segments", len(segments)))

	if len(segments) == 0 {
		app.logger.Info("no subtitle segments detected")
		return &Stats{TargetLanguage: app.config.GetTargetLang()}, nil
	}

	sourceLang := app.resolveSourceLanguage(segments)

	translated, err := app.translateSegments(ctx, segments, sourceLang)
	if err != nil {
		return nil, err
	}

	framesProcessed, err := app.renderVideo(ctx, inputPath, outputPath, info, translated, progress)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Segments:        len(segments),
		FramesProcessed: framesProcessed,
		SourceLanguage:  sourceLang,
		TargetLanguage:  app.config.GetTargetLang(),
	}, nil
}

// detectObservations decodes the input and collects region-filtered OCR
// observations for every frame
func (app *Application) detectObservations(ctx context.Context, inputPath string, info *video.Info, progress ProgressFunc) ([]detector.Observation, error) {
	reader := app.newFrameSource(inputPath, info)
	if err := reader.Start(ctx); err != nil {
		return nil, err
	}
	defer reader.Close()

	var observations []detector.Observation

	for frameIndex := 0; ; frameIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := reader.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		detected, err := app.detector.DetectFrame(ctx, frameIndex, frame, info.Width, info.Height)
		if err != nil {
			return nil, fmt.Errorf("detection failed on frame %d: %w", frameIndex, err)
		}

		observations = append(observations, app.regionFilter.Filter(detected, info.Height)...)

		if progress != nil {
			progress("detect", frameIndex, info.FrameCount)
		}
	}

	return observations, nil
}

// resolveSourceLanguage returns the configured source language, or detects
// it from segment texts with an English fallback
func (app *Application) resolveSourceLanguage(segments []segment.Segment) string {
	if configured := app.config.GetSourceLang(); configured != "" {
		app.logger.Info("using configured source language",
			zap.String("language", configured))
		return configured
	}

	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		texts = append(texts, seg.Text)
	}

	detected := app.langDetector.DetectFromSegments(texts)
	if detected == "" {
		detected = "en"
	}
	app.logger.Info("auto-detected source language",
		zap.String("language", detected),
		zap.String("name", language.Name(detected)))

	return detected
}

// translateSegments translates every segment's text into the target language
func (app *Application) translateSegments(ctx context.Context, segments []segment.Segment, sourceLang string) ([]renderer.TranslatedSegment, error) {
	targetLang := app.config.GetTargetLang()
	translated := make([]renderer.TranslatedSegment, 0, len(segments))

	for _, seg := range segments {
		text, err := app.translator.Translate(ctx, seg.Text, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("failed to translate segment [%d,%d]: %w", seg.StartFrame, seg.EndFrame, err)
		}

		translated = append(translated, renderer.TranslatedSegment{
			StartFrame:     seg.StartFrame,
			EndFrame:       seg.EndFrame,
			BBox:           seg.BBox,
			OriginalText:   seg.Text,
			TranslatedText: text,
		})
	}

	return translated, nil
}

// renderVideo re-decodes the input, paints subtitle backgrounds on frames
// covered by a segment, and encodes the output
func (app *Application) renderVideo(ctx context.Context, inputPath, outputPath string, info *video.Info, segments []renderer.TranslatedSegment, progress ProgressFunc) (int, error) {
	lookup := renderer.BuildFrameLookup(segments)

	reader := app.newFrameSource(inputPath, info)
	if err := reader.Start(ctx); err != nil {
		return 0, err
	}
	defer reader.Close()

	writer := app.newFrameSink(outputPath, info)
	if err := writer.Start(ctx); err != nil {
		return 0, err
	}

	framesProcessed := 0
	for frameIndex := 0; ; frameIndex++ {
		if err := ctx.Err(); err != nil {
			writer.Close()
			return framesProcessed, err
		}

		frame, err := reader.ReadFrame()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return framesProcessed, err
		}

		if seg, ok := lookup[frameIndex]; ok {
			if err := app.renderer.Render(frame, info.Width, info.Height, seg); err != nil {
				writer.Close()
				return framesProcessed, err
			}
		}

		if err := writer.WriteFrame(frame); err != nil {
			writer.Close()
			return framesProcessed, err
		}
		framesProcessed++

		if progress != nil {
			progress("render", frameIndex, info.FrameCount)
		}
	}

	if err := writer.Close(); err != nil {
		return framesProcessed, err
	}

	return framesProcessed, nil
}
