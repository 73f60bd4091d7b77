package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/dumpersafety/dumperwatch/hazard"
	"github.com/dumpersafety/dumperwatch/model"
	"github.com/dumpersafety/dumperwatch/session"

	log "github.com/sirupsen/logrus"
)

type MediaDetector interface {
	Detect(ctx context.Context, kind model.Kind, file model.File) (*model.Result, error)
}

type HistoryRecorder interface {
	AddDetection(ctx context.Context, kind model.Kind, fileName string, totalObjects int, peakScore float64, level hazard.Severity) error
}

// Dashboard is the view controller: it owns one upload session per media
// kind plus the active tab, and drives the detect round trip for each. The
// two sessions never affect one another.
type Dashboard struct {
	mu        sync.Mutex
	sessions  map[model.Kind]*session.Session
	activeTab model.Kind
	detector  MediaDetector
	recorder  HistoryRecorder // nil when no history store is configured
}

func New(detector MediaDetector, recorder HistoryRecorder) *Dashboard {
	return &Dashboard{
		sessions: map[model.Kind]*session.Session{
			model.KindImage: session.New(model.KindImage),
			model.KindVideo: session.New(model.KindVideo),
		},
		activeTab: model.KindImage,
		detector:  detector,
		recorder:  recorder,
	}
}

// Select feeds a picked file into the kind's session. A MIME mismatch comes
// back as session.ErrWrongMediaType with the session untouched.
func (d *Dashboard) Select(kind model.Kind, file model.File) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessions[kind].Select(file)
}

func (d *Dashboard) Clear(kind model.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessions[kind].Clear()
}

// ActiveTab is purely a display-routing flag; it never touches session state.
func (d *Dashboard) ActiveTab() model.Kind {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeTab
}

func (d *Dashboard) SetActiveTab(kind model.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeTab = kind
}

/*
Detect runs one upload-and-detect round trip for the kind's session.

A trigger while a request is already in flight is ignored outright, not
queued. Triggering without a selected file is a caller error. Request
failures are not returned: they land in the session as its error. If the
session was cleared or reselected while the request was outstanding, the
late outcome fails the request-ID check and is discarded.
*/
func (d *Dashboard) Detect(ctx context.Context, kind model.Kind) error {
	d.mu.Lock()
	sess := d.sessions[kind]
	if sess.Status() == session.StatusSubmitting {
		d.mu.Unlock()
		log.WithField("kind", kind).Debug("detect already in flight, ignoring trigger")
		return nil
	}
	requestID, err := sess.BeginSubmit()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	file := *sess.File()
	d.mu.Unlock()

	log.WithField("kind", kind).WithField("requestID", requestID).WithField("file", file.Name).Info("submitting media for detection")
	result, detectErr := d.detector.Detect(ctx, kind, file)

	d.mu.Lock()
	defer d.mu.Unlock()
	if detectErr != nil {
		log.WithField("kind", kind).WithField("requestID", requestID).Errorf("detection failed: %v", detectErr)
		if err := sess.Reject(requestID, detectErr.Error()); errors.Is(err, session.ErrStaleResponse) {
			log.WithField("requestID", requestID).Debug("discarding stale rejection")
		}
		return nil
	}
	if err := sess.Resolve(requestID, result); errors.Is(err, session.ErrStaleResponse) {
		log.WithField("requestID", requestID).Debug("discarding stale resolution")
		return nil
	}
	d.record(ctx, kind, file.Name, result)
	return nil
}

// record writes a history row for a landed result. Best effort: the session
// outcome stands whether or not the row makes it in.
func (d *Dashboard) record(ctx context.Context, kind model.Kind, fileName string, result *model.Result) {
	if d.recorder == nil {
		return
	}
	summary := Summarize(result)
	err := d.recorder.AddDetection(ctx, kind, fileName, summary.TotalObjects, summary.PeakScore, summary.PeakSeverity)
	if err != nil {
		log.Warnf("detection succeeded but wasn't recorded to history: %v", err)
	}
}
