// Package reconcile merges normalized records from multiple catalog sources
// into a single capture ID mapping.
//
// Sources are processed strictly in the order given: when two sources
// produce the same capture ID, the later source's label wins. Source order
// is therefore a policy decision, and the more complete catalogs belong at
// the end of the list.
package reconcile

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/nxshot/capturedb/pkg/captureid"
	"github.com/nxshot/capturedb/pkg/catalog"
	"github.com/nxshot/capturedb/pkg/errors"
	"github.com/nxshot/capturedb/pkg/logging"
	"github.com/nxshot/capturedb/pkg/normalize"
)

// Batch is one source's contribution to a run: its raw records in document
// order, the normalization rules for its record shape, and the upstream
// catalog's own last-update time when the source could discover one.
type Batch struct {
	Source    string
	Rules     normalize.Rules
	Records   []catalog.SourceRecord
	UpdatedAt *utc.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSeed seeds the reconciler with a previously persisted mapping.
// Current sources overwrite seeded entries under the same precedence rule;
// seeded entries nothing overwrites keep their prior labels.
func WithSeed(m catalog.Mapping) Option {
	return func(r *Reconciler) {
		r.seed = m
	}
}

// WithPriorMetadata supplies the previous run's metadata so that sources
// absent from this run keep their old entries instead of being dropped.
func WithPriorMetadata(meta *catalog.RunMetadata) Option {
	return func(r *Reconciler) {
		r.prior = meta
	}
}

// WithClock overrides the run timestamp source, for tests.
func WithClock(now func() utc.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// Reconciler merges source batches into one mapping and tracks per-source
// provenance. It owns the accumulating mapping for the duration of a run;
// results are handed off as copies.
type Reconciler struct {
	key   captureid.Key
	seed  catalog.Mapping
	prior *catalog.RunMetadata
	now   func() utc.Time
}

// New creates a reconciler with a validated key.
func New(key captureid.Key, opts ...Option) *Reconciler {
	r := &Reconciler{
		key: key,
		now: utc.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile processes the batches in the order given and returns the merged
// mapping with this run's metadata.
//
// It returns errors.ErrNoRecords when every batch contributed zero pairs,
// so automation can tell "no data available right now" apart from a fatal
// key error. The mapping and metadata are still returned in that case.
func (r *Reconciler) Reconcile(ctx context.Context, batches []Batch) (catalog.Mapping, catalog.RunMetadata, error) {
	log := logging.FromContext(ctx)
	now := r.now()

	mapping := make(catalog.Mapping)
	if r.seed != nil {
		mapping = r.seed.Clone()
	}

	meta := catalog.RunMetadata{
		GeneratedAt: now,
		Sources:     make(map[string]catalog.SourceMetadata, len(batches)),
	}

	contributed := 0
	for _, batch := range batches {
		pairs := r.normalizeBatch(batch)

		// Per-key overwrite, so iteration order over pairs doesn't matter:
		// within-source collisions were already resolved in record order.
		for id, label := range pairs {
			mapping[id] = label
		}

		meta.Sources[batch.Source] = catalog.SourceMetadata{
			Count:           len(pairs),
			FetchedAt:       now,
			SourceUpdatedAt: batch.UpdatedAt,
		}
		contributed += len(pairs)

		log.Debug().
			Str("source", batch.Source).
			Int("records", len(batch.Records)).
			Int("pairs", len(pairs)).
			Msg("Merged source batch")
	}

	// Carry forward metadata for sources not refreshed in this run.
	if r.prior != nil {
		for name, sm := range r.prior.Sources {
			if _, refreshed := meta.Sources[name]; !refreshed {
				meta.Sources[name] = sm
			}
		}
	}

	meta.TotalCount = len(mapping)

	if contributed == 0 {
		return mapping, meta, errors.ErrNoRecords
	}
	return mapping, meta, nil
}

// normalizeBatch normalizes a batch's records in document order. When two
// records in the same batch map to the same capture ID, the later record
// wins, matching the overall precedence rule.
func (r *Reconciler) normalizeBatch(batch Batch) catalog.Mapping {
	n := normalize.New(r.key, batch.Rules)
	pairs := make(catalog.Mapping)
	for _, rec := range batch.Records {
		if id, label, ok := n.Normalize(rec); ok {
			pairs[id] = label
		}
	}
	return pairs
}
