package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-go-golems/text-manipulation/pkg/listing"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/rs/zerolog/log"
)

// KV is the secret store a RecordStore works against.
type KV interface {
	ReadSecret(ctx context.Context, path string) (map[string]interface{}, error)
	WriteSecret(ctx context.Context, path string, data map[string]interface{}) error
	List(ctx context.Context, path string) ([]string, error)
}

// RecordStore maps the secrets below a Vault path to records: one record per
// secret, its key/value data as the record fields.
type RecordStore struct {
	kv    KV
	path  string
	depth int
}

// Loaded is a record read from Vault together with its secret path.
type Loaded struct {
	Path   string
	Record *record.Record
}

func NewRecordStore(kv KV, path string, depth int) *RecordStore {
	return &RecordStore{kv: kv, path: path, depth: depth}
}

// Lister binds kv to ctx so it can be walked with the listing package.
func Lister(ctx context.Context, kv KV) listing.Lister {
	return boundKV{ctx: ctx, kv: kv}
}

type boundKV struct {
	ctx context.Context
	kv  KV
}

func (b boundKV) ListSecrets(path string) ([]string, error) { return b.kv.List(b.ctx, path) }
func (b boundKV) GetSecrets(path string) (map[string]interface{}, error) {
	return b.kv.ReadSecret(b.ctx, path)
}

// Load reads every secret below the store path, in path order. Paths that
// cannot be listed are logged and skipped.
func (s *RecordStore) Load(ctx context.Context) ([]Loaded, error) {
	paths, errs := listing.Secrets(Lister(ctx, s.kv), s.path, s.depth)
	for _, err := range errs {
		log.Warn().Err(err).Msg("Vault listing warning")
	}

	ret := make([]Loaded, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := s.kv.ReadSecret(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		log.Debug().Str("path", p).Int("keys", len(data)).Msg("loaded secret as record")
		ret = append(ret, Loaded{Path: p, Record: &record.Record{JSON: data}})
	}
	return ret, nil
}

// Save writes the fields of each record back to its secret path.
// Attachments have no Vault representation and are dropped with a warning.
func (s *RecordStore) Save(ctx context.Context, path string, rec *record.Record) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty secret path")
	}
	if len(rec.Binary) > 0 {
		log.Warn().Str("path", path).Int("attachments", len(rec.Binary)).Msg("attachments are not written to Vault")
	}
	data := rec.JSON
	if data == nil {
		data = map[string]interface{}{}
	}
	if err := s.kv.WriteSecret(ctx, path, data); err != nil {
		return err
	}
	log.Debug().Str("path", path).Int("keys", len(data)).Msg("record written to Vault")
	return nil
}
