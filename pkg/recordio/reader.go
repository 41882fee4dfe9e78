package recordio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ReadFile reads records from path ("-" for stdin). An empty format is
// derived from the file extension.
func ReadFile(path string, format Format) ([]*record.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read records from %s: %w", path, err)
	}
	if format == "" {
		format = FormatForPath(path)
	}
	recs, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode records from %s: %w", path, err)
	}
	log.Debug().Str("path", path).Str("format", string(format)).Int("records", len(recs)).Msg("records read")
	return recs, nil
}

// Decode parses records. A single top-level object is accepted as one record.
func Decode(data []byte, format Format) ([]*record.Record, error) {
	var items []map[string]interface{}
	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return nil, nil
		}
		if trimmed[0] == '{' {
			var item map[string]interface{}
			if err := json.Unmarshal(trimmed, &item); err != nil {
				return nil, err
			}
			items = append(items, item)
		} else if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	case FormatJSONL:
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			b := bytes.TrimSpace(scanner.Bytes())
			if len(b) == 0 {
				continue
			}
			var item map[string]interface{}
			if err := json.Unmarshal(b, &item); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			items = append(items, item)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return nil, nil
		}
		doc := node.Content[0]
		if doc.Kind == yaml.MappingNode {
			var item map[string]interface{}
			if err := doc.Decode(&item); err != nil {
				return nil, err
			}
			items = append(items, item)
		} else if err := doc.Decode(&items); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}

	recs := make([]*record.Record, 0, len(items))
	for i, item := range items {
		if item == nil {
			item = map[string]interface{}{}
		}
		r, err := fromItem(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		recs = append(recs, r)
	}
	return recs, nil
}
