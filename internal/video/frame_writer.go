package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// FrameWriter manages an FFmpeg process that encodes raw bgr24 frames into
// an output video file
type FrameWriter struct {
	outputPath string
	width      int
	height     int
	fps        float64
	logger     *zap.Logger
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     io.ReadCloser
	ffmpegPath string
}

// NewFrameWriter creates a new FrameWriter instance
func NewFrameWriter(outputPath string, width, height int, fps float64, logger *zap.Logger) *FrameWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameWriter{
		outputPath: outputPath,
		width:      width,
		height:     height,
		fps:        fps,
		logger:     logger,
		ffmpegPath: "ffmpeg", // Default FFmpeg binary path
	}
}

// SetFFmpegPath overrides the ffmpeg binary path
func (w *FrameWriter) SetFFmpegPath(path string) {
	w.ffmpegPath = path
}

// Start launches the FFmpeg encode process
func (w *FrameWriter) Start(ctx context.Context) error {
	w.logger.Info("starting ffmpeg process for frame encoding",
		zap.String("output", w.outputPath),
		zap.Float64("fps", w.fps))

	args := []string{
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", w.width, w.height),
		"-r", fmt.Sprintf("%f", w.fps),
		"-i", "pipe:0", // Read from stdin
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-v", "error",
		"-y", // Overwrite output
		w.outputPath,
	}

	w.cmd = exec.CommandContext(ctx, w.ffmpegPath, args...)

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	w.stdin = stdin

	stderr, err := w.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	w.stderr = stderr

	if err := w.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	w.logger.Info("ffmpeg encode process started",
		zap.Int("pid", w.cmd.Process.Pid))

	go w.handleStderr()

	return nil
}

// WriteFrame sends one raw frame to the encoder
func (w *FrameWriter) WriteFrame(frame []byte) error {
	if w.stdin == nil {
		return fmt.Errorf("ffmpeg process not started")
	}

	expected := w.width * w.height * 3
	if len(frame) != expected {
		return fmt.Errorf("frame size mismatch: got %d bytes, want %d", len(frame), expected)
	}

	if _, err := w.stdin.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}

// Close signals end of input and waits for the encoder to finish
func (w *FrameWriter) Close() error {
	w.logger.Info("closing frame writer")

	// Close stdin to signal FFmpeg to finish encoding
	if w.stdin != nil {
		w.stdin.Close()
		w.stdin = nil
	}

	if w.cmd != nil && w.cmd.Process != nil {
		if err := w.cmd.Wait(); err != nil {
			return fmt.Errorf("ffmpeg encode process failed: %w", err)
		}
		w.cmd = nil
	}

	return nil
}

// handleStderr logs FFmpeg diagnostics line by line
func (w *FrameWriter) handleStderr() {
	scanner := bufio.NewScanner(w.stderr)
	for scanner.Scan() {
		w.logger.Debug("ffmpeg stderr", zap.String("line", scanner.Text()))
	}
}
