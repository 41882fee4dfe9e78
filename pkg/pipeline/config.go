package pipeline

import (
	"fmt"
	"os"

	"github.com/go-go-golems/text-manipulation/pkg/charset"
	"github.com/go-go-golems/text-manipulation/pkg/destination"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/operation"
	"github.com/go-go-golems/text-manipulation/pkg/source"
	"gopkg.in/yaml.v3"
)

const defaultCharset = "utf-8"

// Config is the pipeline configuration file.
type Config struct {
	KeepOnlySet bool        `yaml:"keep_only_set,omitempty"`
	Groups      []GroupSpec `yaml:"groups"`
}

// GroupSpec declares a TextGroup: its sources and the operations applied to each.
type GroupSpec struct {
	Name       string           `yaml:"name,omitempty"`
	Sources    []SourceSpec     `yaml:"sources"`
	Operations []operation.Spec `yaml:"operations,omitempty"`
}

// SourceSpec pairs exactly one read with exactly one write.
type SourceSpec struct {
	From ReadSpec  `yaml:"from"`
	To   WriteSpec `yaml:"to"`
}

type ReadSpec struct {
	Text *string       `yaml:"text,omitempty"`
	File *FileReadSpec `yaml:"file,omitempty"`
	JSON *JSONReadSpec `yaml:"json,omitempty"`
}

type FileReadSpec struct {
	Key               string `yaml:"key"`
	Charset           string `yaml:"charset,omitempty"`
	StripBOM          bool   `yaml:"strip_bom,omitempty"`
	PreferManipulated bool   `yaml:"prefer_manipulated,omitempty"`
}

type JSONReadSpec struct {
	Path              string `yaml:"path"`
	PreferManipulated bool   `yaml:"prefer_manipulated,omitempty"`
	SkipNonString     bool   `yaml:"skip_non_string,omitempty"`
}

type WriteSpec struct {
	JSON *JSONWriteSpec `yaml:"json,omitempty"`
	File *FileWriteSpec `yaml:"file,omitempty"`
}

type JSONWriteSpec struct {
	Path string `yaml:"path"`
}

type FileWriteSpec struct {
	Key      string `yaml:"key"`
	Charset  string `yaml:"charset,omitempty"`
	AddBOM   bool   `yaml:"add_bom,omitempty"`
	FileName string `yaml:"file_name,omitempty"`
	MimeType string `yaml:"mime_type,omitempty"`
}

// TextGroup is a built, validated GroupSpec.
type TextGroup struct {
	Name       string
	Sources    []DataSource
	Operations []operation.Operation
}

// DataSource is a built SourceSpec.
type DataSource struct {
	Read  source.Read
	Write destination.Write
}

// LoadConfig reads a pipeline configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML pipeline configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return &cfg, nil
}

// Build validates every group and returns the typed TextGroups.
func (c *Config) Build() ([]TextGroup, error) {
	groups := make([]TextGroup, 0, len(c.Groups))
	for i, g := range c.Groups {
		tg, err := g.Build()
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", groupLabel(i, g.Name), err)
		}
		groups = append(groups, tg)
	}
	return groups, nil
}

// Group returns the spec of the named group.
func (c *Config) Group(name string) (GroupSpec, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupSpec{}, false
}

func groupLabel(i int, name string) string {
	if name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("#%d", i)
}

// Build validates the group's sources and operations.
func (g GroupSpec) Build() (TextGroup, error) {
	tg := TextGroup{Name: g.Name}
	for i, s := range g.Sources {
		ds, err := s.Build()
		if err != nil {
			return TextGroup{}, fmt.Errorf("source %d: %w", i, err)
		}
		tg.Sources = append(tg.Sources, ds)
	}
	ops, err := operation.BuildAll(g.Operations)
	if err != nil {
		return TextGroup{}, err
	}
	tg.Operations = ops
	return tg, nil
}

// Build checks that exactly one read and one write variant is set.
func (s SourceSpec) Build() (DataSource, error) {
	read, err := s.From.build()
	if err != nil {
		return DataSource{}, err
	}
	write, err := s.To.build()
	if err != nil {
		return DataSource{}, err
	}
	return DataSource{Read: read, Write: write}, nil
}

func (r ReadSpec) build() (source.Read, error) {
	var reads []source.Read
	if r.Text != nil {
		reads = append(reads, source.FromText{Text: *r.Text})
	}
	if r.File != nil {
		cs := defaultString(r.File.Charset, defaultCharset)
		if _, err := charset.Lookup(cs); err != nil {
			return nil, err
		}
		reads = append(reads, source.FromFile{
			AttachmentKey:     r.File.Key,
			DecodeCharset:     cs,
			StripBOM:          r.File.StripBOM,
			PreferManipulated: r.File.PreferManipulated,
		})
	}
	if r.JSON != nil {
		reads = append(reads, source.FromJSON{
			Path:              r.JSON.Path,
			PreferManipulated: r.JSON.PreferManipulated,
			SkipNonString:     r.JSON.SkipNonString,
		})
	}
	if len(reads) != 1 {
		return nil, manipulation.InvalidOption("from", fmt.Sprintf("%d read variants", len(reads)))
	}
	return reads[0], nil
}

func (w WriteSpec) build() (destination.Write, error) {
	var writes []destination.Write
	if w.JSON != nil {
		if w.JSON.Path == "" {
			return nil, manipulation.InvalidParameter("to.json.path", "")
		}
		writes = append(writes, destination.ToJSON{Path: w.JSON.Path})
	}
	if w.File != nil {
		cs := defaultString(w.File.Charset, defaultCharset)
		if _, err := charset.Lookup(cs); err != nil {
			return nil, err
		}
		if w.File.Key == "" {
			return nil, manipulation.InvalidParameter("to.file.key", "")
		}
		writes = append(writes, destination.ToFile{
			AttachmentKey: w.File.Key,
			EncodeCharset: cs,
			AddBOM:        w.File.AddBOM,
			FileName:      w.File.FileName,
			MimeType:      w.File.MimeType,
		})
	}
	if len(writes) != 1 {
		return nil, manipulation.InvalidOption("to", fmt.Sprintf("%d write variants", len(writes)))
	}
	return writes[0], nil
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
