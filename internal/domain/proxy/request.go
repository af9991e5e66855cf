package proxy

import "net/url"

// Body is the outbound request body, decided once at the call boundary.
// Implementations: JSONBody, MultipartBody.
type Body interface {
	isBody()
}

// JSONBody is encoded as application/json.
type JSONBody struct {
	Value any
}

func (JSONBody) isBody() {}

// MultipartBody is re-encoded field by field with a fresh boundary.
type MultipartBody struct {
	Fields []Field
}

func (MultipartBody) isBody() {}

// Field is one multipart part. File is nil for plain values.
type Field struct {
	Name  string
	Value string
	File  *FilePart
}

// FilePart carries an uploaded file.
type FilePart struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Value returns the first plain value for name.
func (m MultipartBody) Value(name string) (string, bool) {
	for _, f := range m.Fields {
		if f.Name == name && f.File == nil {
			return f.Value, true
		}
	}
	return "", false
}

// Request describes one call to forward to the backend.
type Request struct {
	Method       string
	Path         string
	Query        url.Values
	Body         Body
	AuthRequired bool
}
