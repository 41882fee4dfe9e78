// Package pipeline runs configured TextGroups over input records.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-go-golems/text-manipulation/pkg/destination"
	"github.com/go-go-golems/text-manipulation/pkg/manipulation"
	"github.com/go-go-golems/text-manipulation/pkg/operation"
	"github.com/go-go-golems/text-manipulation/pkg/record"
	"github.com/go-go-golems/text-manipulation/pkg/source"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

type Processor struct {
	Committer *destination.Committer
	Options   ProcessorOptions
}

type ProcessorOptions struct {
	// KeepOnlySet starts each output record empty instead of from a copy of the input.
	KeepOnlySet     bool
	ContinueOnError bool
}

// Result is the outcome for one input record. Exactly one of Record and Err is set.
type Result struct {
	Index  int
	Record *record.Record
	Err    error
}

// NewProcessor returns a processor committing attachments in memory.
func NewProcessor(opts ProcessorOptions) *Processor {
	return &Processor{Committer: destination.NewCommitter(nil), Options: opts}
}

// Process runs cfg over records in input order. Groups are rebuilt from the
// configuration for every record, so configuration errors fail each record
// rather than the whole batch. Without ContinueOnError the first failure stops
// the batch; otherwise failures are reported in their Result and aggregated
// into the returned error.
func (p *Processor) Process(ctx context.Context, records []*record.Record, cfg *Config) ([]Result, error) {
	start := time.Now()
	proc := *p
	proc.Options.KeepOnlySet = p.Options.KeepOnlySet || cfg.KeepOnlySet

	var errs *multierror.Error
	results := make([]Result, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		log.Debug().Int("record", i).Int("groups", len(cfg.Groups)).Msg("processing record")

		out, err := proc.processConfigured(ctx, i, rec, cfg)
		if err != nil {
			if !p.Options.ContinueOnError {
				emitBatchComplete(ctx, len(results)+1, 1, time.Since(start))
				return results, err
			}
			log.Warn().Err(err).Int("record", i).Msg("record failed, continuing")
			errs = multierror.Append(errs, err)
			results = append(results, Result{Index: i, Err: err})
			continue
		}
		results = append(results, Result{Index: i, Record: out})
	}

	failed := 0
	if errs != nil {
		failed = len(errs.Errors)
	}
	emitBatchComplete(ctx, len(records), failed, time.Since(start))
	log.Debug().Int("records", len(records)).Int("failed", failed).Dur("duration", time.Since(start)).Msg("batch complete")
	return results, errs.ErrorOrNil()
}

func (p *Processor) processConfigured(ctx context.Context, index int, rec *record.Record, cfg *Config) (*record.Record, error) {
	groups, err := cfg.Build()
	if err != nil {
		return nil, &manipulation.RecordError{Index: index, Err: err}
	}
	return p.ProcessRecord(ctx, index, rec, groups)
}

// ProcessRecord applies groups to a single record and returns its output.
// Sources that signal a skip contribute nothing; any other failure aborts
// the record and is returned as a *manipulation.RecordError.
func (p *Processor) ProcessRecord(ctx context.Context, index int, rec *record.Record, groups []TextGroup) (*record.Record, error) {
	start := time.Now()
	emitRecordStart(ctx, index)

	out, err := p.processRecord(ctx, index, rec, groups)
	if err != nil {
		err = &manipulation.RecordError{Index: index, Err: err}
	}
	emitRecordComplete(ctx, index, time.Since(start), err)
	return out, err
}

func (p *Processor) processRecord(ctx context.Context, index int, rec *record.Record, groups []TextGroup) (*record.Record, error) {
	if rec == nil {
		rec = record.New()
	}
	out := record.New()
	if !p.Options.KeepOnlySet {
		var err error
		if out, err = rec.Clone(); err != nil {
			return nil, err
		}
	}

	committer := p.Committer
	if committer == nil {
		committer = destination.NewCommitter(nil)
	}

	for _, g := range groups {
		for si, ds := range g.Sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			value, err := source.Resolve(ds.Read, rec, out)
			if errors.Is(err, manipulation.ErrSkip) {
				emitSourceSkipped(ctx, index, g.Name, si)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("group %q source %d: %w", g.Name, si, err)
			}

			value, err = operation.Fold(value, g.Operations)
			if err != nil {
				return nil, fmt.Errorf("group %q source %d: %w", g.Name, si, err)
			}

			if err := committer.Commit(ctx, ds.Write, value, out); err != nil {
				return nil, fmt.Errorf("group %q source %d: %w", g.Name, si, err)
			}
			log.Debug().Int("record", index).Str("group", g.Name).Int("source", si).Int("length", len(value)).Msg("source committed")
		}
	}

	if len(out.Binary) == 0 {
		out.Binary = nil
	}
	return out, nil
}
