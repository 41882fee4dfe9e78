package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zoobzio/capitan"
)

// Signals for pipeline events.
var (
	SignalRecordStart    = capitan.NewSignal("pipeline.record.start", "Record processing beginning")
	SignalRecordComplete = capitan.NewSignal("pipeline.record.complete", "Record processing finished")
	SignalSourceSkipped  = capitan.NewSignal("pipeline.source.skipped", "Data source contributed nothing")
	SignalBatchComplete  = capitan.NewSignal("pipeline.batch.complete", "Batch processing finished")
)

// Keys for typed event data.
var (
	KeyIndex    = capitan.NewIntKey("index")
	KeyGroup    = capitan.NewStringKey("group")
	KeySource   = capitan.NewIntKey("source")
	KeyRecords  = capitan.NewIntKey("records")
	KeyFailed   = capitan.NewIntKey("failed")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

func emitRecordStart(ctx context.Context, index int) {
	capitan.Emit(ctx, SignalRecordStart, KeyIndex.Field(index))
}

func emitRecordComplete(ctx context.Context, index int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyIndex.Field(index),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRecordComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRecordComplete, fields...)
	}
}

func emitSourceSkipped(ctx context.Context, index int, group string, src int) {
	capitan.Emit(ctx, SignalSourceSkipped,
		KeyIndex.Field(index),
		KeyGroup.Field(group),
		KeySource.Field(src),
	)
}

func emitBatchComplete(ctx context.Context, records, failed int, duration time.Duration) {
	capitan.Emit(ctx, SignalBatchComplete,
		KeyRecords.Field(records),
		KeyFailed.Field(failed),
		KeyDuration.Field(duration),
	)
}

// LogEvents forwards pipeline signals to the debug log. Close the returned
// observer when the run is over.
func LogEvents() *capitan.Observer {
	return capitan.Observe(func(_ context.Context, e *capitan.Event) {
		ev := log.Debug()
		if e.Severity() == capitan.SeverityError {
			ev = log.Warn()
		}
		if i, ok := KeyIndex.From(e); ok {
			ev = ev.Int("record", i)
		}
		if g, ok := KeyGroup.From(e); ok {
			ev = ev.Str("group", g)
		}
		if n, ok := KeyRecords.From(e); ok {
			ev = ev.Int("records", n)
		}
		if n, ok := KeyFailed.From(e); ok {
			ev = ev.Int("failed", n)
		}
		if d, ok := KeyDuration.From(e); ok {
			ev = ev.Dur("duration", d)
		}
		if err, ok := KeyError.From(e); ok {
			ev = ev.Err(err)
		}
		ev.Msg(e.Signal().Description())
	}, SignalRecordComplete, SignalSourceSkipped, SignalBatchComplete)
}
