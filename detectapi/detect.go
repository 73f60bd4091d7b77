package detectapi

/*
Both detection endpoints share the failure half of the shape:
If Success == false:

	Error is populated, everything else is empty. The backend sends this
	with an HTTP 500, so status codes alone don't distinguish a declared
	failure from a transport one.

If Success == true:

	Error is empty and the kind-specific fields are populated.
*/

type ImageDetection struct {
	Class             string  `json:"class"`
	Confidence        float64 `json:"confidence"`
	HazardScore       float64 `json:"hazard_score"`
	HazardLevel       string  `json:"hazard_level"`
	EstimatedDistance string  `json:"estimated_distance"`
}

type ImageSummary struct {
	TotalObjects    int      `json:"total_objects"`
	MaxHazardScore  float64  `json:"max_hazard_score"`
	ClassesDetected []string `json:"classes_detected"`
}

type ImageResponse struct {
	Success    bool             `json:"success"`
	Detections []ImageDetection `json:"detections,omitempty"`
	Summary    ImageSummary     `json:"summary,omitempty"`
	Error      string           `json:"error,omitempty"`
}

type VideoInfo struct {
	TotalFrames     int     `json:"totalframes"`
	ProcessedFrames int     `json:"processedframes"`
	FPS             float64 `json:"fps"`
}

// FrameDetails is only present when the backend is asked for per-frame
// breakdowns; Classes may be empty even then.
type FrameDetails struct {
	Classes []string `json:"classes,omitempty"`
}

type FrameResult struct {
	Frame      int           `json:"frame"`
	Timestamp  float64       `json:"timestamp"`
	Detections int           `json:"detections"`
	MaxHazard  float64       `json:"maxhazard"`
	Details    *FrameDetails `json:"details,omitempty"`
}

type VideoResponse struct {
	Success      bool          `json:"success"`
	VideoInfo    VideoInfo     `json:"videoinfo,omitempty"`
	FrameResults []FrameResult `json:"frameresults,omitempty"`
	Error        string        `json:"error,omitempty"`
}
