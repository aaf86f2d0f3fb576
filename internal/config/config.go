package config

import (
	"fmt"

	"github.com/spf13/viper"

	"videosubtranslator/internal/segment"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

// setDefaults applies the reference defaults to a viper instance
func setDefaults(v *viper.Viper) {
	v.SetDefault("language.target", "en")
	v.SetDefault("language.source", "") // Auto-detect when empty

	v.SetDefault("ocr.lang", "en")
	v.SetDefault("ocr.use_gpu", false)
	v.SetDefault("ocr.min_confidence", 0.5)
	v.SetDefault("ocr.bottom_ratio", 0.3)

	v.SetDefault("grouping.similarity_threshold", 0.8)
	v.SetDefault("grouping.min_segment_frames", 3)
	v.SetDefault("grouping.max_gap_frames", 2)

	v.SetDefault("rendering.mode", "rectangle")
	v.SetDefault("rendering.font_path", "")
	v.SetDefault("rendering.font_size", 32)
	v.SetDefault("rendering.padding", 10)

	v.SetDefault("translation.endpoint", "https://translate.googleapis.com/translate_a/single")
	v.SetDefault("translation.use_mock", false)

	v.SetDefault("video.ffmpeg_path", "ffmpeg")
	v.SetDefault("video.ffprobe_path", "ffprobe")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg := &Configuration{viper: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables
func NewConfigurationFromEnv() (*Configuration, error) {
	v := viper.New()
	setDefaults(v)

	// Set up environment variable mapping
	v.SetEnvPrefix("VST")
	v.AutomaticEnv()

	// Map specific environment variables
	v.BindEnv("language.target", "VST_TARGET_LANG")
	v.BindEnv("language.source", "VST_SOURCE_LANG")
	v.BindEnv("grouping.similarity_threshold", "VST_SIMILARITY_THRESHOLD")
	v.BindEnv("grouping.min_segment_frames", "VST_MIN_SEGMENT_FRAMES")
	v.BindEnv("grouping.max_gap_frames", "VST_MAX_GAP_FRAMES")
	v.BindEnv("translation.endpoint", "VST_TRANSLATION_ENDPOINT")

	cfg := &Configuration{viper: v}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects invalid settings eagerly, before any processing starts
func (c *Configuration) Validate() error {
	if err := c.GetGroupingConfig().Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if ratio := c.GetBottomRatio(); ratio <= 0.0 || ratio > 1.0 {
		return fmt.Errorf("invalid configuration: ocr.bottom_ratio must be in (0.0, 1.0], got %v", ratio)
	}

	if conf := c.GetMinConfidence(); conf < 0.0 || conf > 1.0 {
		return fmt.Errorf("invalid configuration: ocr.min_confidence must be between 0.0 and 1.0, got %v", conf)
	}

	if mode := c.GetRenderMode(); mode != "rectangle" && mode != "inpaint" {
		return fmt.Errorf("invalid configuration: rendering.mode must be \"rectangle\" or \"inpaint\", got %q", mode)
	}

	return nil
}

// Set overrides a configuration key, typically from a CLI flag
func (c *Configuration) Set(key string, value interface{}) {
	c.viper.Set(key, value)
}

// WriteToFile persists the effective configuration as YAML
func (c *Configuration) WriteToFile(path string) error {
	if err := c.viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// GetTargetLang returns the translation target language code
func (c *Configuration) GetTargetLang() string {
	return c.viper.GetString("language.target")
}

// GetSourceLang returns the source language code, empty when auto-detection is requested
func (c *Configuration) GetSourceLang() string {
	return c.viper.GetString("language.source")
}

// GetOCRLang returns the OCR language code
func (c *Configuration) GetOCRLang() string {
	return c.viper.GetString("ocr.lang")
}

// GetUseGPU returns whether OCR should use GPU acceleration
func (c *Configuration) GetUseGPU() bool {
	return c.viper.GetBool("ocr.use_gpu")
}

// GetMinConfidence returns the minimum OCR confidence to keep a detection
func (c *Configuration) GetMinConfidence() float64 {
	return c.viper.GetFloat64("ocr.min_confidence")
}

// GetBottomRatio returns the fraction of frame height treated as the subtitle region
func (c *Configuration) GetBottomRatio() float64 {
	return c.viper.GetFloat64("ocr.bottom_ratio")
}

// GetGroupingConfig returns the segment grouping thresholds
func (c *Configuration) GetGroupingConfig() segment.Config {
	return segment.Config{
		SimilarityThreshold: c.viper.GetFloat64("grouping.similarity_threshold"),
		MinSegmentFrames:    c.viper.GetInt("grouping.min_segment_frames"),
		MaxGapFrames:        c.viper.GetInt("grouping.max_gap_frames"),
	}
}

// GetRenderMode returns the subtitle rendering mode
func (c *Configuration) GetRenderMode() string {
	return c.viper.GetString("rendering.mode")
}

// GetFontPath returns the custom font file path, empty for the default font
func (c *Configuration) GetFontPath() string {
	return c.viper.GetString("rendering.font_path")
}

// GetFontSize returns the rendered subtitle font size
func (c *Configuration) GetFontSize() int {
	return c.viper.GetInt("rendering.font_size")
}

// GetRenderPadding returns the background box padding in pixels
func (c *Configuration) GetRenderPadding() int {
	return c.viper.GetInt("rendering.padding")
}

// GetTranslationEndpoint returns the translation service URL
func (c *Configuration) GetTranslationEndpoint() string {
	return c.viper.GetString("translation.endpoint")
}

// GetUseMockTranslator returns whether the mock translation backend is selected
func (c *Configuration) GetUseMockTranslator() bool {
	return c.viper.GetBool("translation.use_mock")
}

// GetFFmpegPath returns the ffmpeg binary path
func (c *Configuration) GetFFmpegPath() string {
	return c.viper.GetString("video.ffmpeg_path")
}

// GetFFprobePath returns the ffprobe binary path
func (c *Configuration) GetFFprobePath() string {
	return c.viper.GetString("video.ffprobe_path")
}
