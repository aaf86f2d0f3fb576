package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"videosubtranslator/internal/app"
	"videosubtranslator/internal/config"
	"videosubtranslator/internal/detector"
	"videosubtranslator/internal/logger"
)

// rootFlags holds the CLI flag values before they are applied to the
// configuration
type rootFlags struct {
	configFile          string
	saveConfig          string
	sourceLang          string
	targetLang          string
	ocrLang             string
	renderMode          string
	fontSize            int
	similarityThreshold float64
	minSegmentFrames    int
	maxGapFrames        int
	mockTranslator      bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "videosubtranslator <input> <output>",
		Short: "Translate burned-in video subtitles",
		Long: `videosubtranslator locates burned-in subtitle text in video frames,
groups the per-frame OCR readings into stable subtitle segments, translates
them, and renders the result into a new video file.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, flags, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&flags.configFile, "config", "", "path to YAML configuration file")
	cmd.Flags().StringVar(&flags.saveConfig, "save-config", "", "save the effective configuration to a YAML file")
	cmd.Flags().StringVar(&flags.sourceLang, "source-lang", "", "source language code (auto-detect if not provided)")
	cmd.Flags().StringVar(&flags.targetLang, "target-lang", "en", "target language code")
	cmd.Flags().StringVar(&flags.ocrLang, "ocr-lang", "en", "OCR language")
	cmd.Flags().StringVar(&flags.renderMode, "render-mode", "rectangle", "rendering mode (rectangle or inpaint)")
	cmd.Flags().IntVar(&flags.fontSize, "font-size", 32, "font size for rendered text")
	cmd.Flags().Float64Var(&flags.similarityThreshold, "similarity-threshold", 0.8, "text similarity threshold for grouping")
	cmd.Flags().IntVar(&flags.minSegmentFrames, "min-segment-frames", 3, "minimum frames for a valid segment")
	cmd.Flags().IntVar(&flags.maxGapFrames, "max-gap-frames", 2, "maximum frame gap within one segment")
	cmd.Flags().BoolVar(&flags.mockTranslator, "mock-translator", false, "use the mock translation backend")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

// runProcess executes the full pipeline for one input/output pair
func runProcess(cmd *cobra.Command, flags *rootFlags, inputPath, outputPath string) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	cfg, err := loadConfiguration(cmd, flags)
	if err != nil {
		return err
	}

	if flags.saveConfig != "" {
		if err := cfg.WriteToFile(flags.saveConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to: %s\n", flags.saveConfig)
	}

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	zapLogger.Info("videosubtranslator starting",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("target_lang", cfg.GetTargetLang()))

	det, err := detector.NewTesseractDetectorWithLogger(cfg.GetOCRLang(), zapLogger)
	if err != nil {
		return err
	}
	defer det.Close()

	application, err := app.NewApplication(cfg, det, zapLogger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := newProgressReporter(os.Stdout)
	stats, err := application.ProcessVideo(ctx, inputPath, outputPath, reporter.update)
	reporter.stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderStatsTable(stats))
	return nil
}

// loadConfiguration builds the effective configuration from file or
// environment, then applies explicitly set CLI flags on top
func loadConfiguration(cmd *cobra.Command, flags *rootFlags) (*config.Configuration, error) {
	var cfg *config.Configuration
	var err error

	if flags.configFile != "" {
		cfg, err = config.NewConfigurationFromFile(flags.configFile)
	} else {
		cfg, err = config.NewConfigurationFromEnv()
	}
	if err != nil {
		return nil, err
	}

	set := cmd.Flags().Changed
	if set("source-lang") {
		cfg.Set("language.source", flags.sourceLang)
	}
	if set("target-lang") {
		cfg.Set("language.target", flags.targetLang)
	}
	if set("ocr-lang") {
		cfg.Set("ocr.lang", flags.ocrLang)
	}
	if set("render-mode") {
		cfg.Set("rendering.mode", flags.renderMode)
	}
	if set("font-size") {
		cfg.Set("rendering.font_size", flags.fontSize)
	}
	if set("similarity-threshold") {
		cfg.Set("grouping.similarity_threshold", flags.similarityThreshold)
	}
	if set("min-segment-frames") {
		cfg.Set("grouping.min_segment_frames", flags.minSegmentFrames)
	}
	if set("max-gap-frames") {
		cfg.Set("grouping.max_gap_frames", flags.maxGapFrames)
	}
	if set("mock-translator") {
		cfg.Set("translation.use_mock", flags.mockTranslator)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
