package vault

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	secrets map[string]map[string]interface{}
	writes  []string
}

func (m *memoryKV) ReadSecret(_ context.Context, path string) (map[string]interface{}, error) {
	s, ok := m.secrets[path]
	if !ok {
		return nil, errors.New("no secret found at path " + path)
	}
	return s, nil
}

func (m *memoryKV) WriteSecret(_ context.Context, path string, data map[string]interface{}) error {
	m.secrets[path] = data
	m.writes = append(m.writes, path)
	return nil
}

func (m *memoryKV) List(_ context.Context, path string) ([]string, error) {
	seen := map[string]bool{}
	var keys []string
	for p := range m.secrets {
		rest, ok := strings.CutPrefix(p, path)
		if !ok || rest == "" {
			continue
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i+1]
		}
		if !seen[rest] {
			seen[rest] = true
			keys = append(keys, rest)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("nothing to list")
	}
	return keys, nil
}

func TestRecordStore_Load(t *testing.T) {
	kv := &memoryKV{secrets: map[string]map[string]interface{}{
		"kv/app/b":       {"name": "b"},
		"kv/app/a":       {"name": "a"},
		"kv/app/nested/c": {"name": "c"},
		"kv/other/d":     {"name": "d"},
	}}

	loaded, err := NewRecordStore(kv, "kv/app", 0).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "kv/app/a", loaded[0].Path)
	assert.Equal(t, "a", loaded[0].Record.JSON["name"])
	assert.Equal(t, "kv/app/nested/c", loaded[2].Path)

	shallow, err := NewRecordStore(kv, "kv/app", 1).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, shallow, 2)
}

func TestRecordStore_LoadSingleSecret(t *testing.T) {
	kv := &memoryKV{secrets: map[string]map[string]interface{}{
		"kv/app/a": {"name": "a"},
	}}
	loaded, err := NewRecordStore(kv, "kv/app/a", 0).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "kv/app/a", loaded[0].Path)
}

func TestRecordStore_LoadCancelled(t *testing.T) {
	kv := &memoryKV{secrets: map[string]map[string]interface{}{"kv/app/a": {}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRecordStore(kv, "kv/app", 0).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecordStore_Save(t *testing.T) {
	kv := &memoryKV{secrets: map[string]map[string]interface{}{}}
	store := NewRecordStore(kv, "kv/app", 0)

	rec := record.New()
	rec.JSON["out"] = "HELLO"
	rec.SetAttachment("data", record.NewAttachment([]byte("x"), "x.txt", ""))
	require.NoError(t, store.Save(context.Background(), "kv/app/a", rec))
	assert.Equal(t, map[string]interface{}{"out": "HELLO"}, kv.secrets["kv/app/a"])

	require.NoError(t, store.Save(context.Background(), "kv/app/empty", &record.Record{}))
	assert.Equal(t, map[string]interface{}{}, kv.secrets["kv/app/empty"])

	assert.Error(t, store.Save(context.Background(), " ", rec))
}

func TestKVPaths(t *testing.T) {
	data, meta := kvPaths("secret/app/db")
	assert.Equal(t, "secret/data/app/db", data)
	assert.Equal(t, "secret/metadata/app/db", meta)

	data, meta = kvPaths("/secret/")
	assert.Equal(t, "secret/data", data)
	assert.Equal(t, "secret/metadata", meta)
}
