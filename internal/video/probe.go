package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info describes the video stream of an input file
type Info struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	FrameCount int     `json:"frame_count"`
}

// ffprobeOutput mirrors the subset of ffprobe's JSON output we read
type ffprobeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
}

// Probe inspects the first video stream of the input file with ffprobe
func Probe(ctx context.Context, ffprobePath, inputPath string) (*Info, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "v:0",
		inputPath,
	}

	out, err := exec.CommandContext(ctx, ffprobePath, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", inputPath, err)
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probed.Streams) == 0 {
		return nil, fmt.Errorf("no video stream found in %s", inputPath)
	}

	stream := probed.Streams[0]
	fps, err := parseFrameRate(stream.RFrameRate)
	if err != nil {
		return nil, err
	}

	frameCount := 0
	if stream.NbFrames != "" {
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			frameCount = n
		}
	}

	return &Info{
		Width:      stream.Width,
		Height:     stream.Height,
		FPS:        fps,
		FrameCount: frameCount,
	}, nil
}

// parseFrameRate converts ffprobe's rational frame rate ("30000/1001") to a float
func parseFrameRate(rate string) (float64, error) {
	parts := strings.SplitN(rate, "/", 2)

	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", rate, err)
	}
	if len(parts) == 1 {
		return num, nil
	}

	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", rate)
	}

	return num / den, nil
}
