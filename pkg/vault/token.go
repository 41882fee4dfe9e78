package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TokenSource selects where the Vault token comes from.
type TokenSource string

const (
	TokenSourceAuto   TokenSource = "auto"
	TokenSourceEnv    TokenSource = "env"
	TokenSourceFile   TokenSource = "file"
	TokenSourceLookup TokenSource = "lookup"
)

// TokenOptions configure ResolveToken.
type TokenOptions struct {
	Explicit string
	Source   TokenSource
	File     string
}

type tokenResolver func(ctx context.Context, o TokenOptions) (string, error)

// ResolveToken returns a token from the configured source. The auto source
// tries the explicit token, VAULT_TOKEN, the token file and finally the
// vault CLI, in that order.
func ResolveToken(ctx context.Context, o TokenOptions) (string, error) {
	var chain []tokenResolver
	switch o.Source {
	case TokenSourceEnv:
		chain = []tokenResolver{tokenFromEnv}
	case TokenSourceFile:
		chain = []tokenResolver{tokenFromFile}
	case TokenSourceLookup:
		chain = []tokenResolver{tokenFromCLI}
	case TokenSourceAuto, "":
		chain = []tokenResolver{tokenFromEnv, tokenFromFile, tokenFromCLI}
	default:
		return "", fmt.Errorf("unknown token source: %s", o.Source)
	}

	var lastErr error
	for _, resolve := range chain {
		token, err := resolve(ctx, o)
		if err == nil && token != "" {
			return token, nil
		}
		lastErr = err
	}
	if len(chain) > 1 {
		return "", fmt.Errorf("unable to resolve Vault token (tried env, file, lookup)")
	}
	return "", lastErr
}

func tokenFromEnv(_ context.Context, o TokenOptions) (string, error) {
	if o.Explicit != "" {
		return o.Explicit, nil
	}
	if t := os.Getenv("VAULT_TOKEN"); t != "" {
		return t, nil
	}
	return "", fmt.Errorf("no token found in environment")
}

func tokenFromFile(_ context.Context, o TokenOptions) (string, error) {
	path, err := tokenFilePath(o.File)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func tokenFilePath(p string) (string, error) {
	if p != "" && !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	if p == "" {
		return filepath.Join(home, ".vault-token"), nil
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// tokenFromCLI asks `vault token lookup` for the id of the active token.
func tokenFromCLI(ctx context.Context, _ TokenOptions) (string, error) {
	cmd := exec.CommandContext(ctx, "vault", "token", "lookup", "-format=json")
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to execute 'vault token lookup': %w", err)
	}

	var payload struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		return "", fmt.Errorf("failed to parse lookup output: %w", err)
	}
	if payload.Data.ID == "" {
		return "", fmt.Errorf("could not extract token id from lookup output")
	}
	return payload.Data.ID, nil
}
