// Package source turns a configured data source into the initial text value
// for one record.
package source

import (
	"github.com/go-go-golems/text-manipulation/pkg/charset"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/rs/zerolog/log"
)

// Read is one of FromText, FromFile or FromJSON.
type Read interface {
	isRead()
}

// FromText yields a literal.
type FromText struct {
	Text string
}

// FromFile decodes a binary attachment.
type FromFile struct {
	AttachmentKey     string
	DecodeCharset     string
	StripBOM          bool
	PreferManipulated bool
}

// FromJSON reads a structured field.
type FromJSON struct {
	Path              string
	PreferManipulated bool
	SkipNonString     bool
}

func (FromText) isRead() {}
func (FromFile) isRead() {}
func (FromJSON) isRead() {}

// Resolve returns the initial value for src. raw is the input record and out
// the output built so far for it. manipulation.ErrSkip means the source has
// nothing to contribute.
func Resolve(src Read, raw, out *record.Record) (string, error) {
	switch s := src.(type) {
	case FromText:
		return s.Text, nil

	case FromFile:
		a, ok := findAttachment(s, raw, out)
		if !ok {
			log.Debug().Str("attachment", s.AttachmentKey).Msg("Attachment not present, skipping source")
			return "", manipulation.ErrSkip
		}
		return charset.Decode(a.Data, s.DecodeCharset, charset.DecodeOptions{StripBOM: s.StripBOM})

	case FromJSON:
		value, ok := findField(s, raw, out)
		if !ok {
			value = nil
		}
		if str, isString := value.(string); isString {
			return str, nil
		}
		if s.SkipNonString {
			log.Debug().Str("path", s.Path).Msgf("Value of type %T is not a string, skipping source", value)
			return "", manipulation.ErrSkip
		}
		return record.Stringify(value), nil
	}
	return "", manipulation.InvalidOption("read", "")
}

func findAttachment(s FromFile, raw, out *record.Record) (*record.Attachment, bool) {
	if s.PreferManipulated {
		if a, ok := out.Attachment(s.AttachmentKey); ok {
			return a, true
		}
	}
	return raw.Attachment(s.AttachmentKey)
}

func findField(s FromJSON, raw, out *record.Record) (interface{}, bool) {
	if s.PreferManipulated && out != nil {
		if v, ok := record.GetByPath(out.JSON, s.Path); ok {
			return v, true
		}
	}
	if raw == nil {
		return nil, false
	}
	return record.GetByPath(raw.JSON, s.Path)
}
