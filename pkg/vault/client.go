package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
)

// Client reads and writes KV secrets, trying the KV v2 layout before v1.
type Client struct {
	client *api.Client
}

// NewClient creates a Vault client and checks that the server answers.
func NewClient(ctx context.Context, address, token string) (*Client, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	client.SetToken(token)

	if _, err := client.Sys().HealthWithContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Vault at %s: %w", address, err)
	}
	return &Client{client: client}, nil
}

// kvPaths returns the KV v2 data and metadata paths for a secret path.
func kvPaths(path string) (data, metadata string) {
	mount, rest, _ := strings.Cut(strings.Trim(path, "/"), "/")
	if rest == "" {
		return mount + "/data", mount + "/metadata"
	}
	return mount + "/data/" + rest, mount + "/metadata/" + strings.TrimSuffix(rest, "/")
}

// ReadSecret returns the key/value data stored at path.
func (c *Client) ReadSecret(ctx context.Context, path string) (map[string]interface{}, error) {
	dataPath, _ := kvPaths(path)
	if secret, err := c.client.Logical().ReadWithContext(ctx, dataPath); err == nil && secret != nil {
		if data, ok := secret.Data["data"].(map[string]interface{}); ok {
			return data, nil
		}
	}

	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secret from path %s: %w", path, err)
	}
	if secret == nil {
		return nil, fmt.Errorf("no secret found at path %s", path)
	}
	return secret.Data, nil
}

// mountVersion asks Vault for the KV version of the mount holding path.
// It returns 0 when the server does not say.
func (c *Client) mountVersion(ctx context.Context, path string) int {
	secret, err := c.client.Logical().ReadWithContext(ctx, "sys/internal/ui/mounts/"+strings.Trim(path, "/"))
	if err != nil || secret == nil {
		return 0
	}
	opts, ok := secret.Data["options"].(map[string]interface{})
	if !ok {
		return 1
	}
	if v, _ := opts["version"].(string); v == "2" {
		return 2
	}
	return 1
}

// WriteSecret replaces the key/value data stored at path. When the mount
// version cannot be determined KV v2 is tried before v1.
func (c *Client) WriteSecret(ctx context.Context, path string, data map[string]interface{}) error {
	version := c.mountVersion(ctx, path)
	if version != 1 {
		dataPath, _ := kvPaths(path)
		_, err := c.client.Logical().WriteWithContext(ctx, dataPath, map[string]interface{}{"data": data})
		if err == nil {
			return nil
		}
		if version == 2 {
			return fmt.Errorf("failed to write secret to path %s: %w", path, err)
		}
	}
	if _, err := c.client.Logical().WriteWithContext(ctx, path, data); err != nil {
		return fmt.Errorf("failed to write secret to path %s: %w", path, err)
	}
	return nil
}

// List returns the keys directly below path. Directories end with "/".
func (c *Client) List(ctx context.Context, path string) ([]string, error) {
	secret, err := c.client.Logical().ListWithContext(ctx, path)
	if keys := listKeys(secret); err == nil && len(keys) > 0 {
		return keys, nil
	}

	_, metaPath := kvPaths(path)
	meta, err2 := c.client.Logical().ListWithContext(ctx, metaPath)
	if err2 != nil || meta == nil {
		if err != nil {
			return nil, fmt.Errorf("failed to list secrets at path %s: %w", path, err)
		}
		return []string{}, nil
	}
	return listKeys(meta), nil
}

func listKeys(secret *api.Secret) []string {
	if secret == nil || secret.Data == nil {
		return nil
	}
	raw, ok := secret.Data["keys"].([]interface{})
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if s, ok := k.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}
