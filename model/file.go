package model

// File is the media candidate held by an upload session. The session owns it
// exclusively: it is replaced wholesale on a new selection and dropped on
// clear.
type File struct {
	Name     string
	Size     int64
	MimeType string
	Data     []byte
}
