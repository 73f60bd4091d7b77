package session

import (
	"errors"

	"github.com/dumpersafety/dumperwatch/model"
	"github.com/lucsky/cuid"
)

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusReady      Status = "READY"
	StatusSubmitting Status = "SUBMITTING"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
)

var (
	// ErrWrongMediaType means the selected file's MIME type doesn't match
	// the slot. The session is untouched; the caller warns the user.
	ErrWrongMediaType = errors.New("file type does not match the upload slot")
	// ErrNoFileSelected is a caller error: submit was attempted without a
	// selected file. The view controller is supposed to gate this.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrNotReady means submit was attempted while a request is already in
	// flight or after an outcome landed without reselecting.
	ErrNotReady = errors.New("session is not ready to submit")
	// ErrStaleResponse means a resolution arrived for a request the session
	// no longer cares about (cleared or replaced mid-flight). Discard it.
	ErrStaleResponse = errors.New("stale detection response")
)

// Session tracks one candidate media file and the outcome of at most one
// in-flight detection request. Not goroutine-safe; the dashboard serializes
// access.
type Session struct {
	kind      model.Kind
	status    Status
	file      *model.File
	result    *model.Result
	errMsg    string
	requestID string
}

func New(kind model.Kind) *Session {
	return &Session{kind: kind, status: StatusIdle}
}

func (s *Session) Kind() model.Kind { return s.kind }

func (s *Session) Status() Status { return s.status }

func (s *Session) File() *model.File { return s.file }

// Result is non-nil only while the status is Succeeded.
func (s *Session) Result() *model.Result {
	return s.result
}

// Err is non-empty only while the status is Failed.
func (s *Session) Err() string {
	return s.errMsg
}

// Select accepts a new candidate file. A selection always restarts the
// cycle: any prior result or error is discarded, whatever the prior status
// was. On a MIME mismatch the session is left exactly as it was.
func (s *Session) Select(file model.File) error {
	if !s.kind.Accepts(file.MimeType) {
		return ErrWrongMediaType
	}
	s.file = &file
	s.status = StatusReady
	s.result = nil
	s.errMsg = ""
	s.requestID = ""
	return nil
}

// Clear resets the session to Idle and drops the file and any outcome. A
// request still in flight will come back to a changed requestID and be
// discarded as stale.
func (s *Session) Clear() {
	s.status = StatusIdle
	s.file = nil
	s.result = nil
	s.errMsg = ""
	s.requestID = ""
}

// BeginSubmit transitions Ready->Submitting and mints the request ID that a
// later Resolve or Reject must present. There is no Idle->Submitting edge.
func (s *Session) BeginSubmit() (string, error) {
	if s.file == nil {
		return "", ErrNoFileSelected
	}
	if s.status != StatusReady {
		return "", ErrNotReady
	}
	s.status = StatusSubmitting
	s.requestID = cuid.New()
	return s.requestID, nil
}

// Resolve lands a successful outcome for the given request. Anything other
// than the in-flight request is stale and must be discarded by the caller.
func (s *Session) Resolve(requestID string, result *model.Result) error {
	if s.status != StatusSubmitting || requestID != s.requestID {
		return ErrStaleResponse
	}
	s.status = StatusSucceeded
	s.result = result
	s.errMsg = ""
	s.requestID = ""
	return nil
}

// Reject lands a failed outcome for the given request, same staleness rules
// as Resolve.
func (s *Session) Reject(requestID string, errMsg string) error {
	if s.status != StatusSubmitting || requestID != s.requestID {
		return ErrStaleResponse
	}
	s.status = StatusFailed
	s.errMsg = errMsg
	s.result = nil
	s.requestID = ""
	return nil
}
