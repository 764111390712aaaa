package veridex

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hupe1980/veridex/blobstore"
	"github.com/hupe1980/veridex/docstore"
	"github.com/hupe1980/veridex/embedding"
	"github.com/hupe1980/veridex/metadata"
	"github.com/hupe1980/veridex/scoring"
	"golang.org/x/sync/errgroup"
)

// promiseFetchLimit caps how many promise documents AnalyzeCompany pulls
// from the store before scoring.
const promiseFetchLimit = 5

// Detector is the package facade: a semantic document store plus a
// contradiction scoring engine. All methods are safe for concurrent use.
type Detector struct {
	store       *docstore.Store
	engine      *scoring.Engine
	logger      *Logger
	ingestLimit int
}

// DocumentInput is one document in a batch ingestion.
type DocumentInput struct {
	Type      string
	Content   string
	SourceRef string
}

// New creates a Detector. With no options it embeds with a deterministic
// hashing provider and scores rule-based only.
func New(optFns ...Option) (*Detector, error) {
	opts := options{
		provider:    embedding.NewHashing(DefaultDimension),
		logger:      NoopLogger(),
		ingestLimit: 4,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	storeOpts := []docstore.Option{
		docstore.WithLogger(opts.logger.Logger),
	}
	if opts.codec != nil {
		storeOpts = append(storeOpts, docstore.WithCodec(opts.codec))
	}
	if opts.compression != nil {
		storeOpts = append(storeOpts, docstore.WithCompression(*opts.compression))
	}

	store, err := docstore.New(opts.provider, storeOpts...)
	if err != nil {
		return nil, translateError(err)
	}

	engineOpts := []scoring.Option{
		scoring.WithEmbeddings(opts.provider),
		scoring.WithLogger(opts.logger.Logger),
	}
	if opts.model != nil {
		engineOpts = append(engineOpts, scoring.WithModel(opts.model))
	}

	return &Detector{
		store:       store,
		engine:      scoring.NewEngine(engineOpts...),
		logger:      opts.logger,
		ingestLimit: opts.ingestLimit,
	}, nil
}

// DocumentID derives the stable id for a company document from its first
// 100 content bytes.
func DocumentID(company, docType, content string) string {
	head := content
	if len(head) > 100 {
		head = head[:100]
	}
	sum := sha256.Sum256([]byte(head))
	return fmt.Sprintf("%s_%s_%s", company, docType, hex.EncodeToString(sum[:])[:8])
}

// AddCompanyDocument embeds and stores one document for a company, and
// returns its derived id. Re-adding the same content for the same company
// and type yields ErrDuplicateID.
func (d *Detector) AddCompanyDocument(ctx context.Context, company, docType, content, sourceRef string) (string, error) {
	id := DocumentID(company, docType, content)

	err := d.store.AddDocument(ctx, id, content, metadata.Metadata{
		Company:   company,
		Type:      docType,
		SourceRef: sourceRef,
	})
	if err != nil {
		return "", translateError(err)
	}

	d.logger.WithCompany(company).WithDocID(id).Debug("company document added")
	return id, nil
}

// AddCompanyDocuments ingests a batch for one company, embedding
// concurrently. It returns the derived ids in input order; the first error
// aborts the batch (documents already stored stay stored).
func (d *Detector) AddCompanyDocuments(ctx context.Context, company string, inputs []DocumentInput) ([]string, error) {
	ids := make([]string, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.ingestLimit)

	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			id, err := d.AddCompanyDocument(ctx, company, input.Type, input.Content, input.SourceRef)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Document returns a stored document by id.
func (d *Detector) Document(id string) (docstore.Document, error) {
	doc, err := d.store.Document(id)
	return doc, translateError(err)
}

// UpdateDocument applies a partial update to a stored document.
func (d *Detector) UpdateDocument(ctx context.Context, id string, u docstore.Update) error {
	return translateError(d.store.UpdateDocument(ctx, id, u))
}

// DeleteDocument removes a document from the store.
func (d *Detector) DeleteDocument(id string) error {
	return translateError(d.store.DeleteDocument(id))
}

// Search returns up to k documents semantically similar to query,
// restricted by filter when non-zero.
func (d *Detector) Search(ctx context.Context, query string, k int, filter metadata.Filter) ([]docstore.Hit, error) {
	hits, err := d.store.Search(ctx, query, k, filter)
	return hits, translateError(err)
}

// CompanyPromises retrieves up to limit commitment-like documents for a
// company on the given topic.
func (d *Detector) CompanyPromises(ctx context.Context, company, topic string, limit int) ([]docstore.Hit, error) {
	hits, err := d.store.CompanyPromises(ctx, company, topic, limit)
	return hits, translateError(err)
}

// Companies lists all companies with at least one stored document.
func (d *Detector) Companies() []string {
	return d.store.Companies()
}

// Analyze scores the contradiction between the supplied promises and
// actions texts. It always returns a result; failures of a delegated model
// degrade to rule-based scoring.
func (d *Detector) Analyze(ctx context.Context, company, topic, promises, actions string) scoring.Result {
	return d.engine.Analyze(ctx, company, topic, promises, actions)
}

// AnalyzeCompany assembles the company's stored promises on the topic and
// scores them against the supplied actions text.
func (d *Detector) AnalyzeCompany(ctx context.Context, company, topic, actions string) (scoring.Result, error) {
	hits, err := d.store.CompanyPromises(ctx, company, topic, promiseFetchLimit)
	if err != nil {
		return scoring.Result{}, translateError(err)
	}

	var sb strings.Builder
	for i, hit := range hits {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(hit.Document.Content)
	}

	return d.engine.Analyze(ctx, company, topic, sb.String(), actions), nil
}

// Summary rolls a batch of analysis results into one risk grade.
func (d *Detector) Summary(results []scoring.Result) scoring.Summary {
	return scoring.Summarize(results)
}

// Stats reports store size and inventories.
func (d *Detector) Stats() docstore.Stats {
	return d.store.Stats()
}

// Rebuild compacts the vector index, dropping tombstones.
func (d *Detector) Rebuild(ctx context.Context) error {
	return translateError(d.store.Rebuild(ctx))
}

// TombstoneRatio reports the fraction of index slots that are tombstones.
func (d *Detector) TombstoneRatio() float64 {
	return d.store.TombstoneRatio()
}

// Save writes the paired snapshot to a directory.
func (d *Detector) Save(ctx context.Context, dir string) error {
	return translateError(d.store.Save(ctx, dir))
}

// Load replaces the detector's contents with the snapshot in dir. A missing
// snapshot leaves the store empty; a corrupt one resets it and returns
// ErrIndexCorrupt.
func (d *Detector) Load(ctx context.Context, dir string) error {
	return translateError(d.store.Load(ctx, dir))
}

// SaveToBlobStore writes the paired snapshot through a blobstore.
func (d *Detector) SaveToBlobStore(ctx context.Context, bs blobstore.Store) error {
	return translateError(d.store.SaveToBlobStore(ctx, bs))
}

// LoadFromBlobStore restores the paired snapshot from a blobstore.
func (d *Detector) LoadFromBlobStore(ctx context.Context, bs blobstore.Store) error {
	return translateError(d.store.LoadFromBlobStore(ctx, bs))
}

// Close releases the embedding provider.
func (d *Detector) Close() error {
	return d.store.Close()
}
