package detectapi

const genericFailureMsg = "detection request failed"

// DetectionError is any failed upload-and-detect round trip: a declared
// success=false payload, a network error, or an unparsable body. The message
// is the payload's error field when one was readable.
type DetectionError struct {
	Message string
}

func (e *DetectionError) Error() string {
	return e.Message
}
