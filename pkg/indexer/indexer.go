package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"golang.org/x/sync/errgroup"

	"github.com/structsearch/structsearch/internal/schema"
	"github.com/structsearch/structsearch/internal/valuetype"
)

// DefaultBatchSize is the number of documents per backend batch.
const DefaultBatchSize = 256

// Document is one attribute-bag document to index.
type Document struct {
	// ID is the document identifier; re-indexing an ID replaces it.
	ID string

	// Attrs is the loosely-typed attribute bag from the document pipeline.
	Attrs map[string]any
}

// Options configures an Indexer.
type Options struct {
	// BatchSize is the number of documents per backend batch.
	// Zero means DefaultBatchSize.
	BatchSize int

	// Workers is the number of goroutines converting attribute bags.
	// Zero means GOMAXPROCS.
	Workers int
}

// Indexer writes attribute-bag documents into the backend index through
// the declared field types. Safe for concurrent use.
type Indexer struct {
	mu        sync.Mutex
	index     bleve.Index
	reg       *schema.Registry
	batchSize int
	workers   int
	closed    bool
}

// New creates an indexer over an open backend index.
func New(index bleve.Index, reg *schema.Registry, opts Options) *Indexer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Indexer{
		index:     index,
		reg:       reg,
		batchSize: opts.BatchSize,
		workers:   opts.Workers,
	}
}

// Index adds documents to the index. Conversion through the field types
// runs concurrently; batch application is serialized. Re-indexing an
// existing ID replaces its content. An empty slice is a no-op.
func (ix *Indexer) Index(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	// Convert attribute bags up front so the backend batches apply fast.
	converted := make([]map[string]any, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			converted[i] = ix.convert(docs[i].Attrs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return fmt.Errorf("index is closed")
	}

	batch := ix.index.NewBatch()
	for i, doc := range docs {
		if err := batch.Index(doc.ID, converted[i]); err != nil {
			return fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
		if batch.Size() >= ix.batchSize {
			if err := ix.index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = ix.index.NewBatch()
		}
	}
	if batch.Size() > 0 {
		if err := ix.index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute batch: %w", err)
		}
	}
	return nil
}

// convert coerces one attribute bag into its backend representation.
// Registered attributes go through their value type and emit the shadow
// sort field when the type is sortable; attributes that fail coercion are
// dropped. Unregistered attributes pass through for generic text indexing.
func (ix *Indexer) convert(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for name, raw := range attrs {
		vt, ok := ix.reg.Resolve(name)
		if !ok {
			out[name] = raw
			continue
		}
		cv, ok := vt.TryCoerce(raw)
		if !ok {
			slog.Debug("index_coercion_failed",
				slog.String("field", name),
				slog.String("type", string(vt.Kind())))
			continue
		}
		out[name] = vt.IndexValue(cv)
		if s, ok := vt.(valuetype.Sortable); ok {
			out[s.SortField()] = s.SortValue(cv)
		}
	}
	return out
}

// Delete removes documents by ID. Non-existent IDs are a no-op.
func (ix *Indexer) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return fmt.Errorf("index is closed")
	}

	batch := ix.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := ix.index.Batch(batch); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// Count returns the number of documents in the index.
func (ix *Indexer) Count() (uint64, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return 0, fmt.Errorf("index is closed")
	}
	return ix.index.DocCount()
}

// Close closes the underlying index. Safe to call multiple times.
func (ix *Indexer) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.closed {
		return nil
	}
	ix.closed = true
	return ix.index.Close()
}
