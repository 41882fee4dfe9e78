package recordio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type WriteOptions struct {
	Format Format // json|jsonl|yaml
	// Append adds to an existing file instead of replacing it. Only JSON
	// lines can be appended; other formats are merged by re-reading the file.
	Append bool
}

var outputLocks = struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}{locks: make(map[string]*sync.Mutex)}

func lockForPath(path string) func() {
	outputLocks.mu.Lock()
	m, ok := outputLocks.locks[path]
	if !ok {
		m = &sync.Mutex{}
		outputLocks.locks[path] = m
	}
	outputLocks.mu.Unlock()
	m.Lock()
	return func() { m.Unlock() }
}

// Encode renders records in the given format.
func Encode(recs []*record.Record, format Format) ([]byte, error) {
	wire := make([]wireRecord, 0, len(recs))
	for _, r := range recs {
		wire = append(wire, toWire(r))
	}

	switch format {
	case FormatJSON, "":
		buf, err := json.MarshalIndent(wire, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records JSON: %w", err)
		}
		return append(buf, '\n'), nil
	case FormatJSONL:
		var b bytes.Buffer
		for i, w := range wire {
			line, err := json.Marshal(w)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal record %d: %w", i, err)
			}
			b.Write(line)
			b.WriteByte('\n')
		}
		return b.Bytes(), nil
	case FormatYAML:
		buf, err := yaml.Marshal(wire)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records YAML: %w", err)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("unknown record format %q", format)
}

// Write writes records to path according to options. "-" writes to stdout.
func Write(path string, recs []*record.Record, opts WriteOptions) error {
	if path == "-" {
		content, err := Encode(recs, opts.Format)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(content)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	unlock := lockForPath(path)
	defer unlock()
	log.Debug().Str("path", path).Str("format", string(opts.Format)).Int("records", len(recs)).Msg("write start")

	if opts.Append && opts.Format == FormatJSONL {
		content, err := Encode(recs, opts.Format)
		if err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		if _, err := f.Write(content); err != nil {
			return fmt.Errorf("failed to append to %s: %w", path, err)
		}
		log.Debug().Str("path", path).Int("bytes", len(content)).Msg("records appended")
		return nil
	}

	if opts.Append {
		if b, err := os.ReadFile(path); err == nil && len(b) > 0 {
			existing, err := Decode(b, opts.Format)
			if err != nil {
				return fmt.Errorf("failed to parse existing records for merge: %w", err)
			}
			recs = append(existing, recs...)
		}
	}

	content, err := Encode(recs, opts.Format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("records written")
	return nil
}
