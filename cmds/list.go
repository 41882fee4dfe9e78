package cmds

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/text-manipulation/pkg/listing"
	"github.com/go-go-golems/text-manipulation/pkg/output"
	"github.com/go-go-golems/text-manipulation/pkg/vault"
	"github.com/go-go-golems/text-manipulation/pkg/vaultlayer"
)

type ListCommand struct{ *gcmds.CommandDescription }

type ListSettings struct {
	Path   string `glazed.parameter:"path"`
	Depth  int    `glazed.parameter:"depth"`
	Prefix string `glazed.parameter:"prefix"`
}

func NewListCommand() (*ListCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"list",
		gcmds.WithShort("List the Vault secrets that run --vault-path would load as records"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("path", parameters.ParameterTypeString, parameters.WithRequired(true), parameters.WithHelp("Vault path to list")),
			parameters.NewParameterDefinition("depth", parameters.ParameterTypeInteger, parameters.WithDefault(0), parameters.WithHelp("Depth to recurse (0 = unlimited)")),
			parameters.NewParameterDefinition("prefix", parameters.ParameterTypeString, parameters.WithHelp("Only show entries starting with this prefix")),
		),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = vaultlayer.AddVaultLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ListCommand{cd}, nil
}

func (c *ListCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	s := &ListSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	vs, err := vaultlayer.GetVaultSettings(parsed)
	if err != nil {
		return err
	}
	client, err := vaultlayer.Connect(ctx, vs)
	if err != nil {
		return err
	}

	entries, warns := listing.Walk(vault.Lister(ctx, client), s.Path, s.Depth)
	for _, e := range entries {
		if s.Prefix != "" && !strings.HasPrefix(e.Path, s.Prefix) {
			continue
		}
		row := types.NewRow(
			types.MRP("path", e.Path),
			types.MRP("type", e.Type),
		)
		if e.Type == "secret" {
			keys, err := secretKeys(ctx, client, e.Path)
			if err != nil {
				row.Set("error", output.ShortError(err))
			}
			row.Set("keys", keys)
		}
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	for _, w := range warns {
		fmt.Fprintln(os.Stderr, output.Warnf("%s", output.ShortError(w)))
	}
	return nil
}

func secretKeys(ctx context.Context, client *vault.Client, path string) ([]string, error) {
	data, err := client.ReadSecret(ctx, path)
	if err != nil {
		return []string{}, err
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var _ gcmds.GlazeCommand = &ListCommand{}
