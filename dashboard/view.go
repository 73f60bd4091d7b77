package dashboard

import (
	"github.com/dumpersafety/dumperwatch/hazard"
	"github.com/dumpersafety/dumperwatch/model"
	"github.com/dumpersafety/dumperwatch/session"
	"golang.org/x/exp/slices"
)

// FileInfo is what the UI shows about the selected file; the bytes stay in
// the session.
type FileInfo struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// SessionView is a point-in-time rendering snapshot of one upload session.
type SessionView struct {
	Kind    model.Kind     `json:"kind"`
	Status  session.Status `json:"status"`
	File    *FileInfo      `json:"file,omitempty"`
	Result  *model.Result  `json:"result,omitempty"`
	Summary *Summary       `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Summary is derived from the stored result on every render, never cached
// in session state.
type Summary struct {
	TotalObjects int `json:"totalObjects"`
	// ReportedMax is the backend's own summary figure, shown alongside.
	ReportedMax float64 `json:"reportedMax"`
	// PeakScore is recomputed by scanning the detections (or frames); its
	// severity drives the dashboard color even when it disagrees with
	// ReportedMax.
	PeakScore    float64         `json:"peakScore"`
	PeakSeverity hazard.Severity `json:"peakSeverity"`
	PeakColor    hazard.Color    `json:"peakColor"`
	Classes      []string        `json:"classes,omitempty"`
}

// View snapshots the kind's session for rendering.
func (d *Dashboard) View(kind model.Kind) SessionView {
	d.mu.Lock()
	defer d.mu.Unlock()
	sess := d.sessions[kind]
	view := SessionView{
		Kind:   kind,
		Status: sess.Status(),
		Error:  sess.Err(),
	}
	if file := sess.File(); file != nil {
		view.File = &FileInfo{Name: file.Name, Size: file.Size, MimeType: file.MimeType}
	}
	if result := sess.Result(); result != nil {
		view.Result = result
		summary := Summarize(result)
		view.Summary = &summary
	}
	return view
}

// Summarize derives the headline statistics for a result. The peak severity
// comes from the highest-scoring detection's own level, not from the
// backend's summary number.
func Summarize(result *model.Result) Summary {
	switch {
	case result.Image != nil:
		return summarizeImage(result.Image)
	case result.Video != nil:
		return summarizeVideo(result.Video)
	default:
		return Summary{PeakSeverity: hazard.SeverityLow, PeakColor: hazard.ColorGreen}
	}
}

func summarizeImage(image *model.ImageResult) Summary {
	peakScore := 0.0
	peakLevel := hazard.Classify(0)
	for _, detection := range image.Detections {
		if detection.HazardScore >= peakScore {
			peakScore = detection.HazardScore
			peakLevel = detection.HazardLevel
		}
	}
	return Summary{
		TotalObjects: image.TotalObjects,
		ReportedMax:  image.MaxHazardScore,
		PeakScore:    peakScore,
		PeakSeverity: peakLevel,
		PeakColor:    hazard.ColorOf(peakLevel),
		Classes:      image.ClassesDetected,
	}
}

func summarizeVideo(video *model.VideoResult) Summary {
	total := 0
	peakScore := 0.0
	peakLevel := hazard.Classify(0)
	var classes []string
	for _, frame := range video.Frames {
		total += frame.DetectionCount
		if frame.MaxHazardScore >= peakScore {
			peakScore = frame.MaxHazardScore
			peakLevel = frame.HazardLevel
		}
		for _, class := range frame.Classes {
			if !slices.Contains(classes, class) {
				classes = append(classes, class)
			}
		}
	}
	return Summary{
		TotalObjects: total,
		ReportedMax:  peakScore,
		PeakScore:    peakScore,
		PeakSeverity: peakLevel,
		PeakColor:    hazard.ColorOf(peakLevel),
		Classes:      classes,
	}
}
