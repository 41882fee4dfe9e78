// Package recordio reads and writes record files: a JSON array, JSON lines
// or a YAML list of {json, binary} items.
package recordio

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/spf13/cast"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown record format %q", s)
}

// FormatForPath guesses a format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

type wireAttachment struct {
	Data          string `json:"data" yaml:"data"`
	FileName      string `json:"fileName,omitempty" yaml:"fileName,omitempty"`
	MimeType      string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	FileExtension string `json:"fileExtension,omitempty" yaml:"fileExtension,omitempty"`
	FileSize      int    `json:"fileSize,omitempty" yaml:"fileSize,omitempty"`
}

type wireRecord struct {
	JSON   map[string]interface{}    `json:"json" yaml:"json"`
	Binary map[string]wireAttachment `json:"binary,omitempty" yaml:"binary,omitempty"`
}

func toWire(r *record.Record) wireRecord {
	w := wireRecord{JSON: r.JSON}
	if w.JSON == nil {
		w.JSON = map[string]interface{}{}
	}
	if len(r.Binary) > 0 {
		w.Binary = make(map[string]wireAttachment, len(r.Binary))
		for k, a := range r.Binary {
			if a == nil {
				continue
			}
			w.Binary[k] = wireAttachment{
				Data:          base64.StdEncoding.EncodeToString(a.Data),
				FileName:      a.FileName,
				MimeType:      a.MimeType,
				FileExtension: a.FileExtension,
				FileSize:      a.FileSize,
			}
		}
	}
	return w
}

// fromItem converts one decoded item. Items whose keys are limited to json
// and binary are taken as wrapped records; anything else is the json part.
func fromItem(item map[string]interface{}) (*record.Record, error) {
	if !isWrapped(item) {
		return &record.Record{JSON: item}, nil
	}
	r := record.New()
	if j, ok := item["json"]; ok && j != nil {
		m, err := toStringMap(j)
		if err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
		r.JSON = m
	}
	if b, ok := item["binary"]; ok && b != nil {
		bin, err := toStringMap(b)
		if err != nil {
			return nil, fmt.Errorf("binary: %w", err)
		}
		for key, v := range bin {
			a, err := toAttachment(v)
			if err != nil {
				return nil, fmt.Errorf("binary %q: %w", key, err)
			}
			r.SetAttachment(key, a)
		}
	}
	return r, nil
}

func isWrapped(item map[string]interface{}) bool {
	if len(item) == 0 {
		return false
	}
	for k := range item {
		if k != "json" && k != "binary" {
			return false
		}
	}
	return true
}

func toStringMap(v interface{}) (map[string]interface{}, error) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, nil
	case map[interface{}]interface{}:
		return cast.ToStringMapE(m)
	}
	return nil, fmt.Errorf("expected an object, got %T", v)
}

func toAttachment(v interface{}) (*record.Attachment, error) {
	m, err := toStringMap(v)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(cast.ToString(m["data"]))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	a := record.NewAttachment(data, cast.ToString(m["fileName"]), cast.ToString(m["mimeType"]))
	if ext := cast.ToString(m["fileExtension"]); ext != "" {
		a.FileExtension = ext
	}
	return a, nil
}
