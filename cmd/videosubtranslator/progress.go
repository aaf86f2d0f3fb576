package main

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"
)

// stageMessages maps pipeline stage names to progress bar labels
var stageMessages = map[string]string{
	"detect": "Detecting subtitles",
	"render": "Rendering output",
}

// progressReporter renders per-stage progress bars when stdout is a
// terminal and stays silent otherwise
type progressReporter struct {
	writer   progress.Writer
	trackers map[string]*progress.Tracker
}

func newProgressReporter(out *os.File) *progressReporter {
	r := &progressReporter{
		trackers: make(map[string]*progress.Tracker),
	}

	if !isatty.IsTerminal(out.Fd()) {
		return r
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetTrackerLength(25)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetTrackerPosition(progress.PositionRight)
	go pw.Render()

	r.writer = pw
	return r
}

// update advances the tracker for a stage, creating it on first use
func (r *progressReporter) update(stage string, frame, total int) {
	if r.writer == nil {
		return
	}

	tracker, ok := r.trackers[stage]
	if !ok {
		message := stageMessages[stage]
		if message == "" {
			message = stage
		}
		tracker = &progress.Tracker{
			Message: message,
			Total:   int64(total),
			Units:   progress.UnitsDefault,
		}
		r.trackers[stage] = tracker
		r.writer.AppendTracker(tracker)
	}

	tracker.SetValue(int64(frame + 1))
}

// stop finishes all trackers and shuts the renderer down
func (r *progressReporter) stop() {
	if r.writer == nil {
		return
	}

	for _, tracker := range r.trackers {
		tracker.MarkAsDone()
	}
	r.writer.Stop()
}
