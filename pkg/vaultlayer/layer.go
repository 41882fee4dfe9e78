package vaultlayer

import (
	"context"
	"fmt"
	"time"

	glzcms "github.com/go-go-golems/glazed/pkg/cmds"
	glzlayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/text-manipulation/pkg/vault"
)

const VaultLayerSlug = "vault"

// VaultSettings select Vault as a record source. Records are read from the
// secrets below VaultPath when it is set.
type VaultSettings struct {
	VaultAddr        string `glazed.parameter:"vault-addr"`
	VaultToken       string `glazed.parameter:"vault-token"`
	VaultTokenSource string `glazed.parameter:"vault-token-source"`
	VaultTokenFile   string `glazed.parameter:"vault-token-file"`
	VaultPath        string `glazed.parameter:"vault-path"`
	VaultDepth       int    `glazed.parameter:"vault-depth"`
	VaultWrite       bool   `glazed.parameter:"vault-write"`
	SettingsPath     string `glazed.parameter:"vault-settings-path"`
}

// Enabled reports whether records should be loaded from Vault.
func (s *VaultSettings) Enabled() bool {
	return s != nil && s.VaultPath != ""
}

// NewVaultLayer defines the parameter layer for Vault-backed records.
func NewVaultLayer() (glzlayers.ParameterLayer, error) {
	return glzlayers.NewParameterLayer(
		VaultLayerSlug,
		"Vault record source",
		glzlayers.WithParameterDefinitions(
			parameters.NewParameterDefinition(
				"vault-addr",
				parameters.ParameterTypeString,
				parameters.WithHelp("Vault server address"),
				parameters.WithDefault("http://127.0.0.1:8200"),
			),
			parameters.NewParameterDefinition(
				"vault-token",
				parameters.ParameterTypeString,
				parameters.WithHelp("Vault token (optional)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"vault-token-source",
				parameters.ParameterTypeChoice,
				parameters.WithHelp("Token source: auto|env|file|lookup"),
				parameters.WithDefault("auto"),
				parameters.WithChoices("auto", "env", "file", "lookup"),
			),
			parameters.NewParameterDefinition(
				"vault-token-file",
				parameters.ParameterTypeString,
				parameters.WithHelp("Path to token file (default ~/.vault-token)"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"vault-path",
				parameters.ParameterTypeString,
				parameters.WithHelp("Read one record per secret below this path instead of --input"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"vault-depth",
				parameters.ParameterTypeInteger,
				parameters.WithHelp("Maximum directory depth under --vault-path (0 = unlimited)"),
				parameters.WithDefault(0),
			),
			parameters.NewParameterDefinition(
				"vault-write",
				parameters.ParameterTypeBool,
				parameters.WithHelp("Write processed records back to their secret paths"),
				parameters.WithDefault(false),
			),
			parameters.NewParameterDefinition(
				"vault-settings-path",
				parameters.ParameterTypeString,
				parameters.WithHelp("Secret whose keys override flags of the same name"),
				parameters.WithDefault(""),
			),
		),
	)
}

// AddVaultLayerToCommand attaches the layer to a Glazed command description.
func AddVaultLayerToCommand(c glzcms.Command) (glzcms.Command, error) {
	l, err := NewVaultLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Layers.Set(VaultLayerSlug, l)
	return c, nil
}

// GetVaultSettings returns parsed vault settings from the ParsedLayers.
func GetVaultSettings(parsed *glzlayers.ParsedLayers) (*VaultSettings, error) {
	var s VaultSettings
	if err := parsed.InitializeStruct(VaultLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse vault settings: %w", err)
	}
	return &s, nil
}

// Connect resolves a token and opens a client, giving up after 15 seconds.
func Connect(ctx context.Context, s *VaultSettings) (*vault.Client, error) {
	ctx2, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	token, err := vault.ResolveToken(ctx2, vault.TokenOptions{
		Explicit: s.VaultToken,
		Source:   vault.TokenSource(s.VaultTokenSource),
		File:     s.VaultTokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault token: %w", err)
	}
	return vault.NewClient(ctx2, s.VaultAddr, token)
}
