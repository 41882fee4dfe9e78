// Package record holds the data model threaded through the pipeline: the
// structured fields of an item plus its named binary attachments.
package record

import (
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mitchellh/copystructure"
	"github.com/spf13/cast"
)

const DefaultMimeType = "text/plain"

// Attachment is a binary blob with its file metadata.
type Attachment struct {
	Data          []byte
	FileName      string
	MimeType      string
	FileExtension string
	FileSize      int
}

// Record is one input or output item.
type Record struct {
	JSON   map[string]interface{}
	Binary map[string]*Attachment
}

// New returns an empty record.
func New() *Record {
	return &Record{JSON: map[string]interface{}{}}
}

// NewAttachment builds an attachment, deriving the extension from the file
// name or, failing that, from the MIME type.
func NewAttachment(data []byte, fileName, mimeType string) *Attachment {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	if ext == "" {
		ext = ExtensionForMimeType(mimeType)
	}
	return &Attachment{
		Data:          data,
		FileName:      fileName,
		MimeType:      mimeType,
		FileExtension: ext,
		FileSize:      len(data),
	}
}

var preferredExtensions = map[string]string{
	"text/plain":       "txt",
	"text/html":        "html",
	"text/csv":         "csv",
	"text/xml":         "xml",
	"application/json": "json",
	"application/xml":  "xml",
}

// ExtensionForMimeType returns a file extension, without the dot, for a MIME
// type. Unknown types yield "bin".
func ExtensionForMimeType(mimeType string) string {
	base, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		base = mimeType
	}
	if ext, ok := preferredExtensions[strings.ToLower(base)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(base); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "bin"
}

// Attachment returns the attachment stored under key, if any.
func (r *Record) Attachment(key string) (*Attachment, bool) {
	if r == nil || r.Binary == nil {
		return nil, false
	}
	a, ok := r.Binary[key]
	return a, ok && a != nil
}

// SetAttachment stores a under key, replacing any previous attachment.
func (r *Record) SetAttachment(key string, a *Attachment) {
	if r.Binary == nil {
		r.Binary = map[string]*Attachment{}
	}
	r.Binary[key] = a
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() (*Record, error) {
	ret := New()
	if r == nil {
		return ret, nil
	}
	if r.JSON != nil {
		copied, err := copystructure.Copy(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to copy record fields: %w", err)
		}
		ret.JSON = copied.(map[string]interface{})
	}
	for key, a := range r.Binary {
		if a == nil {
			continue
		}
		c := *a
		c.Data = append([]byte(nil), a.Data...)
		ret.SetAttachment(key, &c)
	}
	return ret, nil
}

// Stringify renders a field value as text: nil becomes the empty string,
// scalars their canonical form and containers their JSON encoding.
func Stringify(value interface{}) string {
	switch value.(type) {
	case nil:
		return ""
	case map[string]interface{}, []interface{}, map[interface{}]interface{}:
		if data, err := json.Marshal(normalize(value)); err == nil {
			return string(data)
		}
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	if data, err := json.Marshal(value); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", value)
}

// normalize converts YAML-style map[interface{}]interface{} values so they
// can be encoded as JSON.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			m[k] = normalize(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(v))
		for i, val := range v {
			s[i] = normalize(val)
		}
		return s
	}
	return value
}
