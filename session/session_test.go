package session

import (
	"testing"

	"github.com/dumpersafety/dumperwatch/model"
	"github.com/stretchr/testify/assert"
)

func jpegFile() model.File {
	return model.File{Name: "site.jpg", Size: 2048, MimeType: "image/jpeg", Data: []byte("jpegbytes")}
}

func TestSelect(t *testing.T) {
	t.Run("accepts a matching file and becomes ready", func(t *testing.T) {
		s := New(model.KindImage)
		err := s.Select(jpegFile())
		assert.NoError(t, err)
		assert.Equal(t, StatusReady, s.Status())
		assert.Equal(t, "site.jpg", s.File().Name)
		assert.Nil(t, s.Result())
		assert.Empty(t, s.Err())
	})

	t.Run("rejects a mismatched MIME type and leaves the session unchanged", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))

		err := s.Select(model.File{Name: "report.pdf", MimeType: "application/pdf"})
		assert.ErrorIs(t, err, ErrWrongMediaType)
		assert.Equal(t, StatusReady, s.Status())
		assert.Equal(t, "site.jpg", s.File().Name)
		assert.Nil(t, s.Result())
		assert.Empty(t, s.Err())
	})

	t.Run("video slot rejects images", func(t *testing.T) {
		s := New(model.KindVideo)
		err := s.Select(jpegFile())
		assert.ErrorIs(t, err, ErrWrongMediaType)
		assert.Equal(t, StatusIdle, s.Status())
		assert.Nil(t, s.File())
	})

	t.Run("reselecting after success discards the prior result", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		requestID, err := s.BeginSubmit()
		assert.NoError(t, err)
		assert.NoError(t, s.Resolve(requestID, &model.Result{Kind: model.KindImage, Image: &model.ImageResult{}}))
		assert.Equal(t, StatusSucceeded, s.Status())

		assert.NoError(t, s.Select(model.File{Name: "other.png", MimeType: "image/png"}))
		assert.Equal(t, StatusReady, s.Status())
		assert.Nil(t, s.Result())
		assert.Empty(t, s.Err())
		assert.Equal(t, "other.png", s.File().Name)
	})

	t.Run("reselecting after failure clears the error", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		requestID, _ := s.BeginSubmit()
		assert.NoError(t, s.Reject(requestID, "boom"))
		assert.Equal(t, StatusFailed, s.Status())

		assert.NoError(t, s.Select(jpegFile()))
		assert.Equal(t, StatusReady, s.Status())
		assert.Empty(t, s.Err())
	})
}

func TestBeginSubmit(t *testing.T) {
	t.Run("requires a selected file", func(t *testing.T) {
		s := New(model.KindImage)
		_, err := s.BeginSubmit()
		assert.ErrorIs(t, err, ErrNoFileSelected)
		assert.Equal(t, StatusIdle, s.Status())
	})

	t.Run("is only valid from ready", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		_, err := s.BeginSubmit()
		assert.NoError(t, err)
		assert.Equal(t, StatusSubmitting, s.Status())

		_, err = s.BeginSubmit()
		assert.ErrorIs(t, err, ErrNotReady)
		assert.Equal(t, StatusSubmitting, s.Status())
	})

	t.Run("mints a fresh request id per submission", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		first, err := s.BeginSubmit()
		assert.NoError(t, err)
		assert.NoError(t, s.Reject(first, "transient"))

		assert.NoError(t, s.Select(jpegFile()))
		second, err := s.BeginSubmit()
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestResolveAndReject(t *testing.T) {
	t.Run("resolve succeeds with the in-flight request id", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		requestID, _ := s.BeginSubmit()

		result := &model.Result{Kind: model.KindImage, Image: &model.ImageResult{TotalObjects: 2}}
		assert.NoError(t, s.Resolve(requestID, result))
		assert.Equal(t, StatusSucceeded, s.Status())
		assert.Equal(t, result, s.Result())
		assert.Empty(t, s.Err())
	})

	t.Run("reject stores the error and drops any result", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		requestID, _ := s.BeginSubmit()

		assert.NoError(t, s.Reject(requestID, "detection request failed"))
		assert.Equal(t, StatusFailed, s.Status())
		assert.Equal(t, "detection request failed", s.Err())
		assert.Nil(t, s.Result())
	})

	t.Run("resolve outside submitting is stale", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		err := s.Resolve("c123", &model.Result{})
		assert.ErrorIs(t, err, ErrStaleResponse)
		assert.Equal(t, StatusReady, s.Status())
	})

	t.Run("late resolution after clear is discarded, not resurrected", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		requestID, _ := s.BeginSubmit()

		s.Clear()
		assert.Equal(t, StatusIdle, s.Status())

		err := s.Resolve(requestID, &model.Result{Kind: model.KindImage, Image: &model.ImageResult{}})
		assert.ErrorIs(t, err, ErrStaleResponse)
		assert.Equal(t, StatusIdle, s.Status())
		assert.Nil(t, s.Result())
		assert.Nil(t, s.File())
	})

	t.Run("late rejection after reselect is discarded", func(t *testing.T) {
		s := New(model.KindImage)
		assert.NoError(t, s.Select(jpegFile()))
		staleID, _ := s.BeginSubmit()

		// The user picks a new file while the old request is in flight.
		assert.NoError(t, s.Select(jpegFile()))
		freshID, _ := s.BeginSubmit()

		assert.ErrorIs(t, s.Reject(staleID, "too late"), ErrStaleResponse)
		assert.Equal(t, StatusSubmitting, s.Status())

		assert.NoError(t, s.Reject(freshID, "real outcome"))
		assert.Equal(t, StatusFailed, s.Status())
		assert.Equal(t, "real outcome", s.Err())
	})
}

func TestClear(t *testing.T) {
	s := New(model.KindVideo)
	assert.NoError(t, s.Select(model.File{Name: "clip.mp4", MimeType: "video/mp4"}))
	requestID, _ := s.BeginSubmit()
	assert.NoError(t, s.Reject(requestID, "nope"))

	s.Clear()
	assert.Equal(t, StatusIdle, s.Status())
	assert.Nil(t, s.File())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.Err())

	// Clear always succeeds, including from idle.
	s.Clear()
	assert.Equal(t, StatusIdle, s.Status())
}
