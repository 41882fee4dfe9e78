package cmds

import (
	"context"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/text-manipulation/pkg/charset"
)

type CharsetsCommand struct{ *gcmds.CommandDescription }

type CharsetsSettings struct {
	BOMOnly bool `glazed.parameter:"bom-only"`
}

func NewCharsetsCommand() (*CharsetsCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"charsets",
		gcmds.WithShort("List the supported charsets"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("bom-only", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Only list charsets that understand byte order marks")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	return &CharsetsCommand{cd}, nil
}

func (c *CharsetsCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &CharsetsSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	for _, cs := range charset.All() {
		if s.BOMOnly && !cs.BOMAware {
			continue
		}
		row := types.NewRow(
			types.MRP("name", cs.Name),
			types.MRP("bom_aware", cs.BOMAware),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &CharsetsCommand{}
