package cmds

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zoobzio/capitan"

	"github.com/go-go-golems/text-manipulation/pkg/cmdutil"
	"github.com/go-go-golems/text-manipulation/pkg/output"
	"github.com/go-go-golems/text-manipulation/pkg/pipeline"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/go-go-golems/text-manipulation/pkg/recordio"
	"github.com/go-go-golems/text-manipulation/pkg/vault"
	"github.com/go-go-golems/text-manipulation/pkg/vaultlayer"
)

type RunCommand struct{ *gcmds.CommandDescription }

type RunSettings struct {
	Pipeline        string   `glazed.parameter:"pipeline"`
	Input           string   `glazed.parameter:"input"`
	Output          string   `glazed.parameter:"output"`
	InputFormat     string   `glazed.parameter:"input-format"`
	OutputFormat    string   `glazed.parameter:"output-format"`
	Append          bool     `glazed.parameter:"append"`
	Groups          []string `glazed.parameter:"group"`
	ContinueOnError bool     `glazed.parameter:"continue-on-error"`
	KeepOnlySet     bool     `glazed.parameter:"keep-only-set"`
	NoColor         bool     `glazed.parameter:"no-color"`
	Quiet           bool     `glazed.parameter:"quiet"`
}

func NewRunCommand() (*RunCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"run",
		gcmds.WithShort("Run a pipeline over input records"),
		gcmds.WithLong("Reads records from a JSON, JSON lines or YAML file (or from the secrets below --vault-path), applies every configured text group and writes the resulting records."),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("pipeline", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("p"), parameters.WithHelp("Pipeline YAML file")),
			parameters.NewParameterDefinition("input", parameters.ParameterTypeString, parameters.WithDefault("-"), parameters.WithShortFlag("i"), parameters.WithHelp("Input records or '-' for stdin")),
			parameters.NewParameterDefinition("output", parameters.ParameterTypeString, parameters.WithDefault("-"), parameters.WithShortFlag("o"), parameters.WithHelp("Output path or '-' for stdout")),
			parameters.NewParameterDefinition("input-format", parameters.ParameterTypeChoice, parameters.WithChoices("", "json", "jsonl", "yaml"), parameters.WithDefault(""), parameters.WithHelp("Input format (default: from extension)")),
			parameters.NewParameterDefinition("output-format", parameters.ParameterTypeChoice, parameters.WithChoices("", "json", "jsonl", "yaml"), parameters.WithDefault(""), parameters.WithHelp("Output format (default: from extension)")),
			parameters.NewParameterDefinition("append", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Append to the output file instead of replacing it")),
			parameters.NewParameterDefinition("group", parameters.ParameterTypeStringList, parameters.WithHelp("Only run the named groups")),
			parameters.NewParameterDefinition("continue-on-error", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Keep processing after a record fails")),
			parameters.NewParameterDefinition("keep-only-set", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Output only the fields written by the pipeline")),
			parameters.NewParameterDefinition("no-color", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Disable colored summary")),
			parameters.NewParameterDefinition("quiet", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Do not print the summary")),
		),
		gcmds.WithLayersList(layer),
	)
	_, err = vaultlayer.AddVaultLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &RunCommand{cd}, nil
}

func (c *RunCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &RunSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	vs, err := vaultlayer.GetVaultSettings(parsed)
	if err != nil {
		return err
	}
	output.InitConsole(s.NoColor)

	cfg, err := loadPipeline(s.Pipeline, s.Groups)
	if err != nil {
		return err
	}

	var (
		recs  []*record.Record
		paths []string
		store *vault.RecordStore
	)
	if vs.Enabled() {
		client, err := vaultlayer.Connect(ctx, vs)
		if err != nil {
			return err
		}
		store = vault.NewRecordStore(client, vs.VaultPath, vs.VaultDepth)
		loaded, err := store.Load(ctx)
		if err != nil {
			return err
		}
		for _, l := range loaded {
			recs = append(recs, l.Record)
			paths = append(paths, l.Path)
		}
	} else {
		recs, err = recordio.ReadFile(s.Input, recordio.Format(s.InputFormat))
		if err != nil {
			return err
		}
	}

	events := pipeline.LogEvents()
	defer func() {
		capitan.Shutdown()
		events.Close()
	}()

	start := time.Now()
	proc := pipeline.NewProcessor(pipeline.ProcessorOptions{
		KeepOnlySet:     s.KeepOnlySet,
		ContinueOnError: s.ContinueOnError,
	})
	results, procErr := proc.Process(ctx, recs, cfg)

	if !s.Quiet {
		for _, g := range cfg.Groups {
			fmt.Fprint(os.Stderr, output.GroupHeader(g.Name, len(g.Sources), len(g.Operations)))
		}
	}

	outs := make([]*record.Record, 0, len(results))
	failed := 0
	for _, res := range results {
		label := ""
		if res.Index < len(paths) {
			label = paths[res.Index]
		}
		if !s.Quiet {
			fmt.Fprint(os.Stderr, output.RecordLine(res.Index, label, res.Err))
		}
		if res.Err != nil {
			failed++
			continue
		}
		outs = append(outs, res.Record)
		if store != nil && vs.VaultWrite {
			if err := store.Save(ctx, label, res.Record); err != nil {
				return fmt.Errorf("failed to write record %d to Vault: %w", res.Index, err)
			}
		}
	}
	if procErr != nil && !s.ContinueOnError {
		failed++
	}
	if !s.Quiet {
		fmt.Fprint(os.Stderr, output.Summary(len(recs), failed, time.Since(start)))
	}

	format := recordio.Format(s.OutputFormat)
	if format == "" {
		format = recordio.FormatForPath(s.Output)
	}
	if err := recordio.Write(s.Output, outs, recordio.WriteOptions{Format: format, Append: s.Append}); err != nil {
		return fmt.Errorf("failed to write output records: %w", err)
	}
	log.Debug().Int("records", len(recs)).Int("written", len(outs)).Int("failed", failed).Msg("run finished")
	return procErr
}

// resolvePipelinePath looks a relative pipeline path up in the configured
// pipeline_dir when it does not exist as given.
func resolvePipelinePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	dir := viper.GetString("pipeline_dir")
	if dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

// loadPipeline reads a pipeline file and keeps only the selected groups.
func loadPipeline(path string, groups []string) (*pipeline.Config, error) {
	path = resolvePipelinePath(path)
	cfg, err := pipeline.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	selected, missing := cmdutil.Select(cfg.Groups, groups, func(g pipeline.GroupSpec) string { return g.Name })
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown group(s) in %s: %v", path, missing)
	}
	cfg.Groups = selected
	return cfg, nil
}

var _ gcmds.BareCommand = &RunCommand{}
