package model

import (
	"fmt"
	"strings"
)

// Kind selects the upload slot, the accepted MIME prefix, and the detection
// route for a piece of media.
type Kind string

const (
	KindImage Kind = "IMAGE"
	KindVideo Kind = "VIDEO"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case string(KindImage):
		return KindImage, nil
	case string(KindVideo):
		return KindVideo, nil
	default:
		return KindImage, fmt.Errorf("unknown media kind: %s", s)
	}
}

// MIMEPrefix is the prefix an uploaded file's content type must carry to be
// accepted into this kind's slot.
func (k Kind) MIMEPrefix() string {
	if k == KindVideo {
		return "video/"
	}
	return "image/"
}

// Accepts reports whether a MIME type belongs in this kind's upload slot.
func (k Kind) Accepts(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(mimeType), k.MIMEPrefix())
}

// RoutePath is the detection endpoint path for this kind.
func (k Kind) RoutePath() string {
	if k == KindVideo {
		return "/detect/video"
	}
	return "/detect/image"
}
