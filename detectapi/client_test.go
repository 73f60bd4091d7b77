package detectapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	baseURL, err := url.Parse(server.URL)
	require.NoError(t, err)
	return NewClient("test-key", *baseURL), server
}

func TestDetectImage(t *testing.T) {
	t.Run("uploads the file as a single multipart field and parses the payload", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/detect/image", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "site.jpg", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"summary": {"total_objects": 2, "max_hazard_score": 80, "classes_detected": ["person", "excavator"]},
				"detections": [
					{"class": "person", "confidence": 0.92, "hazard_score": 80, "hazard_level": "CRITICAL", "estimated_distance": "3m"},
					{"class": "excavator", "confidence": 0.75, "hazard_score": 40, "hazard_level": "MEDIUM", "estimated_distance": "10m"}
				]
			}`))
		})

		resp, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 2, resp.Summary.TotalObjects)
		assert.Equal(t, 80.0, resp.Summary.MaxHazardScore)
		require.Len(t, resp.Detections, 2)
		assert.Equal(t, "person", resp.Detections[0].Class)
		assert.Equal(t, "CRITICAL", resp.Detections[0].HazardLevel)
	})

	t.Run("extracts the error message from a declared failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// The backend reports declared failures with a 500 and its
			// JSON failure shape.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success": false, "error": "model inference failed"}`))
		})

		_, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		var detectionErr *DetectionError
		require.ErrorAs(t, err, &detectionErr)
		assert.Equal(t, "model inference failed", detectionErr.Message)
	})

	t.Run("falls back to a generic message when the failure has no error field", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": false}`))
		})

		_, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		var detectionErr *DetectionError
		require.ErrorAs(t, err, &detectionErr)
		assert.Equal(t, "detection request failed", detectionErr.Message)
	})

	t.Run("treats an unparsable body as a generic transport failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("<html>nginx says no</html>"))
		})

		_, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		var detectionErr *DetectionError
		require.ErrorAs(t, err, &detectionErr)
		assert.Equal(t, "detection request failed", detectionErr.Message)
	})

	t.Run("treats a network error as a generic transport failure", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		_, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		var detectionErr *DetectionError
		require.ErrorAs(t, err, &detectionErr)
		assert.NotEmpty(t, detectionErr.Error())
	})

	t.Run("makes exactly one attempt", func(t *testing.T) {
		attempts := 0
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.DetectImage(context.TODO(), "site.jpg", []byte("jpegbytes"))
		assert.Error(t, err)
		assert.Equal(t, 1, attempts)
	})
}

func TestDetectVideo(t *testing.T) {
	t.Run("routes to the video endpoint and parses frame results", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/detect/video", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"success": true,
				"videoinfo": {"totalframes": 100, "processedframes": 10, "fps": 30},
				"frameresults": [
					{"frame": 1, "timestamp": 0.03, "detections": 3, "maxhazard": 60},
					{"frame": 16, "timestamp": 0.53, "detections": 1, "maxhazard": 12.5, "details": {"classes": ["person"]}}
				]
			}`))
		})

		resp, err := client.DetectVideo(context.TODO(), "clip.mp4", []byte("mp4bytes"))
		require.NoError(t, err)
		assert.Equal(t, 100, resp.VideoInfo.TotalFrames)
		assert.Equal(t, 10, resp.VideoInfo.ProcessedFrames)
		require.Len(t, resp.FrameResults, 2)
		assert.Equal(t, 60.0, resp.FrameResults[0].MaxHazard)
		assert.Nil(t, resp.FrameResults[0].Details)
		require.NotNil(t, resp.FrameResults[1].Details)
		assert.Equal(t, []string{"person"}, resp.FrameResults[1].Details.Classes)
	})

	t.Run("surfaces declared failures the same way as image detection", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success": false, "error": "cannot open video"}`))
		})

		_, err := client.DetectVideo(context.TODO(), "clip.mp4", []byte("mp4bytes"))
		var detectionErr *DetectionError
		require.ErrorAs(t, err, &detectionErr)
		assert.Equal(t, "cannot open video", detectionErr.Message)
	})
}
