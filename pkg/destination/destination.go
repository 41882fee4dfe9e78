// Package destination commits a final text value to an output record.
package destination

import (
	"context"
	"fmt"

	"github.com/go-go-golems/text-manipulation/pkg/charset"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/rs/zerolog/log"
)

// Write is one of ToJSON or ToFile.
type Write interface {
	isWrite()
}

// ToJSON stores the value in a structured field.
type ToJSON struct {
	Path string
}

// ToFile encodes the value into a binary attachment.
type ToFile struct {
	AttachmentKey string
	EncodeCharset string
	AddBOM        bool
	FileName      string
	MimeType      string
}

func (ToJSON) isWrite() {}
func (ToFile) isWrite() {}

// AttachmentBuilder materialises attachment bytes. It may block, for example
// when the bytes are persisted elsewhere.
type AttachmentBuilder func(ctx context.Context, data []byte, fileName, mimeType string) (*record.Attachment, error)

// InMemory builds attachments without any I/O.
func InMemory(_ context.Context, data []byte, fileName, mimeType string) (*record.Attachment, error) {
	return record.NewAttachment(data, fileName, mimeType), nil
}

// Committer writes values into output records.
type Committer struct {
	build AttachmentBuilder
}

// NewCommitter returns a committer using build for attachments, or InMemory
// when build is nil.
func NewCommitter(build AttachmentBuilder) *Committer {
	if build == nil {
		build = InMemory
	}
	return &Committer{build: build}
}

// Commit writes value to out according to dst. It returns once any
// attachment has been fully materialised.
func (c *Committer) Commit(ctx context.Context, dst Write, value string, out *record.Record) error {
	switch d := dst.(type) {
	case ToJSON:
		if out.JSON == nil {
			out.JSON = map[string]interface{}{}
		}
		if err := record.SetByPath(out.JSON, d.Path, value); err != nil {
			return fmt.Errorf("failed to set %q: %w", d.Path, err)
		}
		return nil

	case ToFile:
		data, err := charset.Encode(value, d.EncodeCharset, charset.EncodeOptions{AddBOM: d.AddBOM})
		if err != nil {
			return err
		}
		mimeType := d.MimeType
		if mimeType == "" {
			mimeType = record.DefaultMimeType
		}
		fileName := d.FileName
		if fileName == "" {
			fileName = d.AttachmentKey + "." + record.ExtensionForMimeType(mimeType)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		a, err := c.build(ctx, data, fileName, mimeType)
		if err != nil {
			return fmt.Errorf("failed to create attachment %q: %w", d.AttachmentKey, err)
		}
		if _, exists := out.Attachment(d.AttachmentKey); exists {
			log.Debug().Str("attachment", d.AttachmentKey).Msg("Overwriting existing attachment")
		}
		out.SetAttachment(d.AttachmentKey, a)
		return nil
	}
	return manipulation.InvalidOption("write", "")
}
