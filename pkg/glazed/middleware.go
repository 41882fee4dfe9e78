package glazed

import (
	"context"
	"fmt"
	"strings"
	"time"

	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	gmiddlewares "github.com/go-go-golems/glazed/pkg/cmds/middlewares"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/text-manipulation/pkg/vaultlayer"
)

// SecretReader reads the key/value data of a secret.
type SecretReader interface {
	ReadSecret(ctx context.Context, path string) (map[string]interface{}, error)
}

// Connector opens a SecretReader from parsed Vault settings.
type Connector func(ctx context.Context, s *vaultlayer.VaultSettings) (SecretReader, error)

func defaultConnector(ctx context.Context, s *vaultlayer.VaultSettings) (SecretReader, error) {
	return vaultlayer.Connect(ctx, s)
}

// UpdateFromVault sets parameters from the secret named by the
// vault-settings-path parameter. Every secret key matching a parameter name
// in any layer updates that parameter. Commands without the vault layer, or
// with an empty settings path, are left untouched.
//
// Place it below the cobra and argument middlewares so flags given on the
// command line still win.
func UpdateFromVault(options ...parameters.ParseStepOption) gmiddlewares.Middleware {
	return updateFromVault(defaultConnector, options...)
}

func updateFromVault(connect Connector, options ...parameters.ParseStepOption) gmiddlewares.Middleware {
	return func(next gmiddlewares.HandlerFunc) gmiddlewares.HandlerFunc {
		return func(layers *glayers.ParameterLayers, parsed *glayers.ParsedLayers) error {
			if err := next(layers, parsed); err != nil {
				return err
			}
			if _, ok := parsed.Get(vaultlayer.VaultLayerSlug); !ok {
				return nil
			}
			vs, err := vaultlayer.GetVaultSettings(parsed)
			if err != nil {
				return err
			}
			path := strings.TrimSpace(vs.SettingsPath)
			if path == "" {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			client, err := connect(ctx, vs)
			if err != nil {
				return err
			}
			secrets, err := client.ReadSecret(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to retrieve settings from %s: %w", path, err)
			}

			updated := 0
			err = layers.ForEachE(func(_ string, l glayers.ParameterLayer) error {
				parsedLayer := parsed.GetOrCreate(l)
				return l.GetParameterDefinitions().ForEachE(func(pd *parameters.ParameterDefinition) error {
					v, ok := secrets[pd.Name]
					if !ok {
						return nil
					}
					updated++
					return parsedLayer.Parameters.UpdateValue(pd.Name, pd, v, options...)
				})
			})
			if err != nil {
				return err
			}
			log.Debug().Str("path", path).Int("parameters", updated).Msg("parameters loaded from Vault")
			return nil
		}
	}
}
