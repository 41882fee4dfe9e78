package glazed

import (
	"context"
	"errors"
	"testing"

	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	gmiddlewares "github.com/go-go-golems/glazed/pkg/cmds/middlewares"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/text-manipulation/pkg/vaultlayer"
)

type staticSecrets map[string]map[string]interface{}

func (s staticSecrets) ReadSecret(_ context.Context, path string) (map[string]interface{}, error) {
	data, ok := s[path]
	if !ok {
		return nil, errors.New("no secret found at path " + path)
	}
	return data, nil
}

func newLayers(t *testing.T, withVault bool) *glayers.ParameterLayers {
	def, err := glayers.NewParameterLayer(glayers.DefaultSlug, "Flags",
		glayers.WithParameterDefinitions(
			parameters.NewParameterDefinition("pipeline", parameters.ParameterTypeString, parameters.WithDefault("")),
		),
	)
	require.NoError(t, err)
	ls := []glayers.ParameterLayer{def}
	if withVault {
		vl, err := vaultlayer.NewVaultLayer()
		require.NoError(t, err)
		ls = append(ls, vl)
	}
	return glayers.NewParameterLayers(glayers.WithLayers(ls...))
}

func TestUpdateFromVault(t *testing.T) {
	secrets := staticSecrets{"kv/settings": {"pipeline": "from-vault.yaml", "vault-depth": 3, "unrelated": "x"}}
	calls := 0
	connect := func(context.Context, *vaultlayer.VaultSettings) (SecretReader, error) {
		calls++
		return secrets, nil
	}

	parsed := glayers.NewParsedLayers()
	err := gmiddlewares.ExecuteMiddlewares(newLayers(t, true), parsed,
		updateFromVault(connect, parameters.WithParseStepSource("vault")),
		gmiddlewares.UpdateFromMap(map[string]map[string]interface{}{
			vaultlayer.VaultLayerSlug: {"vault-settings-path": "kv/settings"},
		}),
		gmiddlewares.SetFromDefaults(),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	p, ok := parsed.GetParameter(glayers.DefaultSlug, "pipeline")
	require.True(t, ok)
	assert.Equal(t, "from-vault.yaml", p.Value)

	vs, err := vaultlayer.GetVaultSettings(parsed)
	require.NoError(t, err)
	assert.Equal(t, 3, vs.VaultDepth)
}

func TestUpdateFromVault_NoPath(t *testing.T) {
	connect := func(context.Context, *vaultlayer.VaultSettings) (SecretReader, error) {
		t.Fatal("connector must not be called")
		return nil, nil
	}

	for _, withVault := range []bool{true, false} {
		parsed := glayers.NewParsedLayers()
		err := gmiddlewares.ExecuteMiddlewares(newLayers(t, withVault), parsed,
			updateFromVault(connect),
			gmiddlewares.SetFromDefaults(),
		)
		require.NoError(t, err)
	}
}

func TestUpdateFromVault_MissingSecret(t *testing.T) {
	connect := func(context.Context, *vaultlayer.VaultSettings) (SecretReader, error) {
		return staticSecrets{}, nil
	}
	parsed := glayers.NewParsedLayers()
	err := gmiddlewares.ExecuteMiddlewares(newLayers(t, true), parsed,
		updateFromVault(connect),
		gmiddlewares.UpdateFromMap(map[string]map[string]interface{}{
			vaultlayer.VaultLayerSlug: {"vault-settings-path": "kv/missing"},
		}),
		gmiddlewares.SetFromDefaults(),
	)
	assert.ErrorContains(t, err, "kv/missing")
}
