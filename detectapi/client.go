package detectapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Client talks to the dumper safety detection API. Exactly one attempt per
// call; retry policy belongs to whoever owns the session, and there isn't one.
type Client struct {
	baseURL    string
	apiKey     string
	HTTPClient *http.Client
}

func NewClient(apiKey string, baseURL url.URL) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL.String(),
		HTTPClient: http.DefaultClient,
	}
}

func (c Client) DetectImage(ctx context.Context, filename string, media []byte) (*ImageResponse, error) {
	body, err := c.post(ctx, "/detect/image", filename, media)
	if err != nil {
		return nil, err
	}
	var ir ImageResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, &DetectionError{Message: genericFailureMsg}
	}
	if !ir.Success {
		return nil, errorFromPayload(ir.Error)
	}
	return &ir, nil
}

func (c Client) DetectVideo(ctx context.Context, filename string, media []byte) (*VideoResponse, error) {
	body, err := c.post(ctx, "/detect/video", filename, media)
	if err != nil {
		return nil, err
	}
	var vr VideoResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, &DetectionError{Message: genericFailureMsg}
	}
	if !vr.Success {
		return nil, errorFromPayload(vr.Error)
	}
	return &vr, nil
}

// post uploads the media as the single multipart field the backend expects
// and returns the response body. Non-2xx responses are not an early exit:
// the backend reports declared failures as JSON with a 500 status, so the
// body still gets parsed for an error message.
func (c Client) post(ctx context.Context, path string, filename string, media []byte) ([]byte, error) {
	var reqBody bytes.Buffer
	writer := multipart.NewWriter(&reqBody)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(media); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", c.baseURL, path), &reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Add("X-API-KEY", c.apiKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &DetectionError{Message: genericFailureMsg}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DetectionError{Message: genericFailureMsg}
	}
	return respBody, nil
}

func errorFromPayload(msg string) *DetectionError {
	if msg == "" {
		msg = genericFailureMsg
	}
	return &DetectionError{Message: msg}
}
