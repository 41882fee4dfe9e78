package cmds

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/text-manipulation/pkg/operation"
	"github.com/go-go-golems/text-manipulation/pkg/pipeline"
)

type ApplyCommand struct{ *gcmds.CommandDescription }

type ApplySettings struct {
	Pipeline  string   `glazed.parameter:"pipeline"`
	Text      string   `glazed.parameter:"text"`
	Groups    []string `glazed.parameter:"group"`
	NoNewline bool     `glazed.parameter:"no-newline"`
}

func NewApplyCommand() (*ApplyCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"apply",
		gcmds.WithShort("Apply the operations of pipeline groups to a literal text"),
		gcmds.WithLong("Folds the operations of the selected groups, in pipeline order, over --text (or stdin) and prints the result. Sources are ignored."),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("pipeline", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithShortFlag("p"), parameters.WithHelp("Pipeline YAML file")),
			parameters.NewParameterDefinition("text", parameters.ParameterTypeString, parameters.WithShortFlag("t"), parameters.WithHelp("Input text (default: read stdin)")),
			parameters.NewParameterDefinition("group", parameters.ParameterTypeStringList, parameters.WithHelp("Groups whose operations are applied (default: all)")),
			parameters.NewParameterDefinition("no-newline", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Do not print a trailing newline")),
		),
		gcmds.WithLayersList(layer),
	)
	return &ApplyCommand{cd}, nil
}

func (c *ApplyCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &ApplySettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	cfg, err := loadPipeline(s.Pipeline, s.Groups)
	if err != nil {
		return err
	}

	text := s.Text
	if text == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimSuffix(string(b), "\n")
	}

	result, err := applyGroups(text, cfg.Groups)
	if err != nil {
		return err
	}
	fmt.Print(result)
	if !s.NoNewline {
		fmt.Println()
	}
	return nil
}

// applyGroups chains the operations of groups over text.
func applyGroups(text string, groups []pipeline.GroupSpec) (string, error) {
	for i, g := range groups {
		ops, err := operation.BuildAll(g.Operations)
		if err == nil {
			text, err = operation.Fold(text, ops)
		}
		if err != nil {
			return "", fmt.Errorf("group %s: %w", groupLabel(i, g.Name), err)
		}
	}
	return text, nil
}

func groupLabel(i int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", i)
}

var _ gcmds.BareCommand = &ApplyCommand{}
