package model

import (
	"github.com/dumpersafety/dumperwatch/detectapi"
	"github.com/dumpersafety/dumperwatch/hazard"
	"golang.org/x/exp/slices"
)

// Detection is one annotated object from an image payload. Immutable once
// built from a response.
type Detection struct {
	ObjectClass       string          `json:"objectClass"`
	Confidence        float64         `json:"confidence"`
	HazardScore       float64         `json:"hazardScore"`
	HazardLevel       hazard.Severity `json:"hazardLevel"`
	EstimatedDistance string          `json:"estimatedDistance"`
}

// Frame is one processed video frame. The backend does not send a hazard
// level per frame, so HazardLevel is always derived from MaxHazardScore.
type Frame struct {
	Index          int             `json:"index"`
	Timestamp      float64         `json:"timestamp"`
	DetectionCount int             `json:"detectionCount"`
	MaxHazardScore float64         `json:"maxHazardScore"`
	HazardLevel    hazard.Severity `json:"hazardLevel"`
	Classes        []string        `json:"classes,omitempty"`
}

type VideoInfo struct {
	TotalFrames     int     `json:"totalFrames"`
	ProcessedFrames int     `json:"processedFrames"`
	FPS             float64 `json:"fps"`
}

type ImageResult struct {
	TotalObjects int `json:"totalObjects"`
	// MaxHazardScore is the server's summary figure. It is displayed as-is;
	// severity coloring scans the detection list instead.
	MaxHazardScore  float64     `json:"maxHazardScore"`
	ClassesDetected []string    `json:"classesDetected"`
	Detections      []Detection `json:"detections"`
}

type VideoResult struct {
	Info   VideoInfo `json:"info"`
	Frames []Frame   `json:"frames"`
}

// Result is the normalized, presentation-ready detection outcome, tagged by
// the media kind that produced it. Exactly one of Image or Video is set.
type Result struct {
	Kind  Kind         `json:"kind"`
	Image *ImageResult `json:"image,omitempty"`
	Video *VideoResult `json:"video,omitempty"`
}

// ResultFromImageResponse normalizes the flat "detections" payload shape.
// Server-supplied hazard levels are preserved; a level the server garbled is
// reclassified from the score rather than dropped.
func ResultFromImageResponse(resp *detectapi.ImageResponse) *Result {
	detections := make([]Detection, 0, len(resp.Detections))
	var classes []string
	for _, d := range resp.Detections {
		level, ok := hazard.ParseSeverity(d.HazardLevel)
		if !ok {
			level = hazard.Classify(d.HazardScore)
		}
		detections = append(detections, Detection{
			ObjectClass:       d.Class,
			Confidence:        d.Confidence,
			HazardScore:       d.HazardScore,
			HazardLevel:       level,
			EstimatedDistance: d.EstimatedDistance,
		})
		if !slices.Contains(classes, d.Class) {
			classes = append(classes, d.Class)
		}
	}
	// Prefer the server's class list when it sends one, in its order.
	if len(resp.Summary.ClassesDetected) > 0 {
		classes = dedupe(resp.Summary.ClassesDetected)
	}
	return &Result{
		Kind: KindImage,
		Image: &ImageResult{
			TotalObjects:    resp.Summary.TotalObjects,
			MaxHazardScore:  resp.Summary.MaxHazardScore,
			ClassesDetected: classes,
			Detections:      detections,
		},
	}
}

// ResultFromVideoResponse normalizes the per-frame "frameresults" shape,
// classifying every frame's hazard level from its max score.
func ResultFromVideoResponse(resp *detectapi.VideoResponse) *Result {
	frames := make([]Frame, 0, len(resp.FrameResults))
	for _, f := range resp.FrameResults {
		frame := Frame{
			Index:          f.Frame,
			Timestamp:      f.Timestamp,
			DetectionCount: f.Detections,
			MaxHazardScore: f.MaxHazard,
			HazardLevel:    hazard.Classify(f.MaxHazard),
		}
		if f.Details != nil {
			frame.Classes = dedupe(f.Details.Classes)
		}
		frames = append(frames, frame)
	}
	return &Result{
		Kind: KindVideo,
		Video: &VideoResult{
			Info: VideoInfo{
				TotalFrames:     resp.VideoInfo.TotalFrames,
				ProcessedFrames: resp.VideoInfo.ProcessedFrames,
				FPS:             resp.VideoInfo.FPS,
			},
			Frames: frames,
		},
	}
}

// dedupe drops repeats while keeping first-seen order for display.
func dedupe(in []string) []string {
	var out []string
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
