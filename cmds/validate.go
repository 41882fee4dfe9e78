package cmds

import (
	"context"
	"fmt"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/text-manipulation/pkg/pipeline"
)

type ValidateCommand struct{ *gcmds.CommandDescription }

type ValidateSettings struct {
	Pipeline   string `glazed.parameter:"pipeline"`
	ErrorsOnly bool   `glazed.parameter:"errors-only"`
}

func NewValidateCommand() (*ValidateCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"validate",
		gcmds.WithShort("Check every source and operation of a pipeline"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("pipeline", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("p"), parameters.WithHelp("Pipeline YAML file")),
			parameters.NewParameterDefinition("errors-only", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Only emit rows that failed validation")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	return &ValidateCommand{cd}, nil
}

func (c *ValidateCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ValidateSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	cfg, err := pipeline.LoadConfig(s.Pipeline)
	if err != nil {
		return err
	}

	for _, row := range validationRows(cfg) {
		if s.ErrorsOnly && row.err == "" {
			continue
		}
		if err := gp.AddRow(ctx, row.toRow()); err != nil {
			return err
		}
	}
	return nil
}

type validationRow struct {
	group string
	kind  string
	index int
	from  string
	to    string
	err   string
}

func (r validationRow) toRow() types.Row {
	return types.NewRow(
		types.MRP("group", r.group),
		types.MRP("type", r.kind),
		types.MRP("index", r.index),
		types.MRP("from", r.from),
		types.MRP("to", r.to),
		types.MRP("valid", r.err == ""),
		types.MRP("error", r.err),
	)
}

// validationRows builds every source and operation of cfg on its own so
// that all problems are reported, not only the first.
func validationRows(cfg *pipeline.Config) []validationRow {
	var rows []validationRow
	for gi, g := range cfg.Groups {
		name := groupLabel(gi, g.Name)
		for i, src := range g.Sources {
			row := validationRow{group: name, kind: "source", index: i, from: describeRead(src.From), to: describeWrite(src.To)}
			if _, err := src.Build(); err != nil {
				row.err = err.Error()
			}
			rows = append(rows, row)
		}
		for i, op := range g.Operations {
			row := validationRow{group: name, kind: "operation", index: i, from: op.Action}
			if _, err := op.Build(); err != nil {
				row.err = err.Error()
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func describeRead(r pipeline.ReadSpec) string {
	switch {
	case r.Text != nil:
		return fmt.Sprintf("text:%q", *r.Text)
	case r.File != nil:
		return "file:" + r.File.Key
	case r.JSON != nil:
		return "json:" + r.JSON.Path
	}
	return ""
}

func describeWrite(w pipeline.WriteSpec) string {
	switch {
	case w.JSON != nil:
		return "json:" + w.JSON.Path
	case w.File != nil:
		return "file:" + w.File.Key
	}
	return ""
}

var _ gcmds.GlazeCommand = &ValidateCommand{}
