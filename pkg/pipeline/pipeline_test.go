package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-go-golems/text-manipulation/pkg/destination"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/operation"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/go-go-golems/text-manipulation/pkg/source"
	"github.com/go-go-golems/text-manipulation/pkg/textutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRecord_EndToEnd(t *testing.T) {
	groups := []TextGroup{{
		Sources: []DataSource{{
			Read:  source.FromJSON{Path: "data"},
			Write: destination.ToJSON{Path: "out"},
		}},
		Operations: []operation.Operation{
			operation.Trim{Side: textutil.TrimBoth, Chars: " "},
			operation.LetterCase{Case: operation.CaseUpper},
		},
	}}
	rec := &record.Record{JSON: map[string]interface{}{"data": "  Hello  "}}

	out, err := NewProcessor(ProcessorOptions{}).ProcessRecord(context.Background(), 0, rec, groups)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"data": "  Hello  ", "out": "HELLO"}, out.JSON)
	assert.Nil(t, out.Binary)
	assert.Equal(t, "  Hello  ", rec.JSON["data"])

	out, err = NewProcessor(ProcessorOptions{KeepOnlySet: true}).ProcessRecord(context.Background(), 0, rec, groups)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"out": "HELLO"}, out.JSON)
}

const chainedConfig = `
groups:
  - name: first
    sources:
      - from: {json: {path: title}}
        to: {json: {path: title}}
    operations:
      - action: concat
        before: "["
        after: "]"
  - name: second
    sources:
      - from: {json: {path: title, prefer_manipulated: true}}
        to: {file: {key: title, charset: utf-16le, add_bom: true}}
      - from: {file: {key: title, charset: utf-16le, strip_bom: true, prefer_manipulated: true}}
        to: {json: {path: meta.round_trip}}
      - from: {json: {path: missing, skip_non_string: true}}
        to: {json: {path: never}}
    operations:
      - action: letterCase
        case: upper
`

func TestProcess_ChainedGroups(t *testing.T) {
	cfg, err := ParseConfig([]byte(chainedConfig))
	require.NoError(t, err)

	recs := []*record.Record{{JSON: map[string]interface{}{"title": "go"}}}
	results, err := NewProcessor(ProcessorOptions{}).Process(context.Background(), recs, cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)

	out := results[0].Record
	assert.Equal(t, "[go]", out.JSON["title"])
	assert.Equal(t, map[string]interface{}{"round_trip": "[GO]"}, out.JSON["meta"])
	assert.NotContains(t, out.JSON, "never")

	a, ok := out.Attachment("title")
	require.True(t, ok)
	assert.Equal(t, []byte{0xFF, 0xFE, '[', 0, 'G', 0, 'O', 0, ']', 0}, a.Data)
	assert.Equal(t, "title.txt", a.FileName)
}

const failingConfig = `
groups:
  - sources:
      - from: {json: {path: n}}
        to: {json: {path: out}}
    operations:
      - action: decodeEncode
        decode_charset: utf-8
        encode_charset: us-ascii
`

func TestProcess_ContinueOnError(t *testing.T) {
	cfg, err := ParseConfig([]byte(failingConfig))
	require.NoError(t, err)
	recs := []*record.Record{
		{JSON: map[string]interface{}{"n": "ok"}},
		{JSON: map[string]interface{}{"n": "café"}},
		{JSON: map[string]interface{}{"n": "fine"}},
	}

	results, err := NewProcessor(ProcessorOptions{ContinueOnError: true}).Process(context.Background(), recs, cfg)
	require.Error(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ok", results[0].Record.JSON["out"])
	assert.Equal(t, "fine", results[2].Record.JSON["out"])

	var recErr *manipulation.RecordError
	require.True(t, errors.As(results[1].Err, &recErr))
	assert.Equal(t, 1, recErr.Index)
	assert.True(t, errors.Is(err, manipulation.ErrCharset))

	results, err = NewProcessor(ProcessorOptions{}).Process(context.Background(), recs, cfg)
	require.Error(t, err)
	assert.Len(t, results, 1)
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 1, recErr.Index)
}

func TestProcess_InvalidConfigFailsEachRecord(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
groups:
  - sources:
      - from: {text: x}
        to: {json: {path: out}}
    operations:
      - action: pad
        target_length: -1
`))
	require.NoError(t, err)

	results, err := NewProcessor(ProcessorOptions{ContinueOnError: true}).Process(
		context.Background(), []*record.Record{record.New(), record.New()}, cfg)
	require.Error(t, err)
	require.Len(t, results, 2)
	for i, r := range results {
		assert.Nil(t, r.Record)
		assert.True(t, errors.Is(r.Err, manipulation.ErrInvalidParameter))
		var recErr *manipulation.RecordError
		require.True(t, errors.As(r.Err, &recErr))
		assert.Equal(t, i, recErr.Index)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	cfg := &Config{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProcessor(ProcessorOptions{}).Process(ctx, []*record.Record{record.New()}, cfg)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSourceSpecValidation(t *testing.T) {
	text := "x"
	tests := []struct {
		name string
		spec SourceSpec
		want error
	}{
		{"no read", SourceSpec{To: WriteSpec{JSON: &JSONWriteSpec{Path: "a"}}}, manipulation.ErrInvalidOption},
		{"two reads", SourceSpec{
			From: ReadSpec{Text: &text, JSON: &JSONReadSpec{Path: "a"}},
			To:   WriteSpec{JSON: &JSONWriteSpec{Path: "a"}},
		}, manipulation.ErrInvalidOption},
		{"no write", SourceSpec{From: ReadSpec{Text: &text}}, manipulation.ErrInvalidOption},
		{"two writes", SourceSpec{
			From: ReadSpec{Text: &text},
			To:   WriteSpec{JSON: &JSONWriteSpec{Path: "a"}, File: &FileWriteSpec{Key: "k"}},
		}, manipulation.ErrInvalidOption},
		{"unknown charset", SourceSpec{
			From: ReadSpec{File: &FileReadSpec{Key: "k", Charset: "martian"}},
			To:   WriteSpec{JSON: &JSONWriteSpec{Path: "a"}},
		}, manipulation.ErrCharset},
		{"missing key", SourceSpec{
			From: ReadSpec{Text: &text},
			To:   WriteSpec{File: &FileWriteSpec{}},
		}, manipulation.ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Build()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}

	ds, err := SourceSpec{
		From: ReadSpec{File: &FileReadSpec{Key: "k"}},
		To:   WriteSpec{File: &FileWriteSpec{Key: "k"}},
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, source.FromFile{AttachmentKey: "k", DecodeCharset: "utf-8"}, ds.Read)
	assert.Equal(t, destination.ToFile{AttachmentKey: "k", EncodeCharset: "utf-8"}, ds.Write)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(chainedConfig), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Groups, 2)
	g, ok := cfg.Group("second")
	require.True(t, ok)
	assert.Len(t, g.Sources, 3)

	groups, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, []operation.Operation{operation.LetterCase{Case: operation.CaseUpper}}, groups[1].Operations)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLogEvents(t *testing.T) {
	obs := LogEvents()
	require.NotNil(t, obs)
	defer obs.Close()

	p := NewProcessor(ProcessorOptions{})
	_, err := p.Process(context.Background(), []*record.Record{record.New()}, &Config{})
	require.NoError(t, err)
}
