package video

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

// FrameReader manages an FFmpeg process that decodes a video file into a
// stream of raw bgr24 frames
type FrameReader struct {
	inputPath  string
	width      int
	height     int
	logger     *zap.Logger
	cmd        *exec.Cmd
	stdout     io.ReadCloser
	stderr     io.ReadCloser
	ffmpegPath string
}

// NewFrameReader creates a new FrameReader instance
func NewFrameReader(inputPath string, width, height int, logger *zap.Logger) *FrameReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameReader{
		inputPath:  inputPath,
		width:      width,
		height:     height,
		logger:     logger,
		ffmpegPath: "ffmpeg", // Default FFmpeg binary path
	}
}

// SetFFmpegPath overrides the ffmpeg binary path
func (r *FrameReader) SetFFmpegPath(path string) {
	r.ffmpegPath = path
}

// FrameSize returns the byte size of one decoded frame
func (r *FrameReader) FrameSize() int {
	return r.width * r.height * 3
}

// Start launches the FFmpeg decode process
func (r *FrameReader) Start(ctx context.Context) error {
	r.logger.Info("starting ffmpeg process for frame decoding",
		zap.String("input", r.inputPath),
		zap.Int("width", r.width),
		zap.Int("height", r.height))

	args := []string{
		"-i", r.inputPath,
		"-f", "rawvideo", // Output format: raw frames
		"-pix_fmt", "bgr24", // 3 bytes per pixel, OCR engines expect BGR
		"-v", "error",
		"pipe:1", // Write to stdout
	}

	r.cmd = exec.CommandContext(ctx, r.ffmpegPath, args...)

	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	r.stdout = stdout

	stderr, err := r.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	r.stderr = stderr

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	r.logger.Info("ffmpeg decode process started",
		zap.Int("pid", r.cmd.Process.Pid))

	go r.handleStderr()

	return nil
}

// ReadFrame reads the next full frame; returns io.EOF when the stream ends
func (r *FrameReader) ReadFrame() ([]byte, error) {
	if r.stdout == nil {
		return nil, fmt.Errorf("ffmpeg process not started")
	}

	frame := make([]byte, r.FrameSize())
	if _, err := io.ReadFull(r.stdout, frame); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	return frame, nil
}

// Close shuts down the FFmpeg process and cleans up resources
func (r *FrameReader) Close() error {
	r.logger.Info("closing frame reader")

	if r.stdout != nil {
		r.stdout.Close()
		r.stdout = nil
	}

	if r.cmd != nil && r.cmd.Process != nil {
		if err := r.cmd.Wait(); err != nil {
			r.logger.Debug("ffmpeg decode process exited with error", zap.Error(err))
		}
		r.cmd = nil
	}

	return nil
}

// handleStderr logs FFmpeg diagnostics line by line
func (r *FrameReader) handleStderr() {
	scanner := bufio.NewScanner(r.stderr)
	for scanner.Scan() {
		r.logger.Debug("ffmpeg stderr", zap.String("line", scanner.Text()))
	}
}
