// Package veridex is an embedded semantic document store with a
// contradiction scoring engine.
//
// Documents are ingested per company, embedded, and searchable by semantic
// similarity with company/type filtering. The scoring engine rates how
// strongly a company's recent actions contradict its stored commitments,
// either with a rule-based keyword-and-embedding analysis or by delegating
// the first pass to a language model.
//
// # Quick Start
//
//	ctx := context.Background()
//	d, _ := veridex.New()
//	defer d.Close()
//
//	id, _ := d.AddCompanyDocument(ctx, "Acme", "esg_report",
//	    "We pledge to reach net zero emissions by 2030.", "acme.com/esg")
//
//	result, _ := d.AnalyzeCompany(ctx, "Acme", "environment",
//	    "Acme was fined for a pollution violation at its main plant.")
//	fmt.Println(result.Level, result.Confidence)
//
// # Embeddings
//
// By default content is embedded with a deterministic hashing provider, so
// the store works offline. A learned model can be layered in front with a
// fallback chain:
//
//	learned, err := embedding.NewFastEmbed(embedding.FastEmbedConfig{})
//	if err == nil {
//	    chain, _ := embedding.NewChain(learned, embedding.NewHashing(learned.Dimension()), nil)
//	    d, _ = veridex.New(veridex.WithEmbeddingProvider(chain))
//	}
//
// # Persistence
//
// Save and Load move the paired snapshot (binary vectors plus a JSON
// document sidecar) through a directory or any blobstore.Store. A snapshot
// that fails validation resets the store to empty: embeddings are derived
// data and can be re-ingested.
package veridex
