package core

import (
	"context"
	"sync"

	"github.com/alchm-kitchen/typesweep/core/classify"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/outwriter"
	"github.com/alchm-kitchen/typesweep/internal/scan"
	"github.com/alchm-kitchen/typesweep/schema"
)

// discoverCandidates runs candidate discovery for one analysis phase,
// printing the analysis header unless the context suppresses it.
func discoverCandidates(ctx context.Context, cfg *contract.Config) ([]schema.FileCandidate, error) {
	if !shouldSuppressHeader(ctx) {
		outwriter.LogAnalysisHeader(cfg)
	}
	return scan.NewScanner(cfg).DiscoverCandidates(ctx)
}

// classifyCandidates builds classification contexts and verdicts for every
// discovered occurrence using a worker pool. Each worker owns whole files,
// so context building and classification for one file never interleave
// across goroutines.
func classifyCandidates(ctx context.Context, cfg *contract.Config, candidates []schema.FileCandidate) ([]schema.Finding, error) {
	provider := contract.NewPathDomainProvider()
	engine := classify.NewEngine(cfg.CategoryCaps)

	candidateCh := make(chan schema.FileCandidate, len(candidates))
	resultCh := make(chan []schema.Finding, len(candidates))
	var wg sync.WaitGroup

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	// Start worker pool
	for range workers {
		wg.Go(func() {
			for cand := range candidateCh {
				findings, err := classifyCandidate(ctx, cfg, provider, engine, cand)
				if err != nil {
					// A candidate that vanished between discovery and context
					// building drops out; a preview must not abort over it.
					if ctx.Err() == nil {
						contract.LogWarn("Skipping candidate "+cand.Path, err)
					}
					continue
				}
				resultCh <- findings
			}
		})
	}

	// Send candidates to worker channel
	for _, cand := range candidates {
		candidateCh <- cand
	}
	close(candidateCh)

	// Wait for all workers to finish processing
	wg.Wait()
	close(resultCh)

	findings := make([]schema.Finding, 0, len(candidates))
	for batch := range resultCh {
		findings = append(findings, batch...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return findings, nil
}

// classifyCandidate classifies every occurrence of a single candidate file.
func classifyCandidate(ctx context.Context, cfg *contract.Config, provider contract.DomainProvider, engine *classify.Engine, cand schema.FileCandidate) ([]schema.Finding, error) {
	contexts, err := scan.BuildContexts(cfg, provider, cand)
	if err != nil {
		return nil, err
	}
	verdicts, err := engine.ClassifyBatch(ctx, contexts)
	if err != nil {
		return nil, err
	}

	findings := make([]schema.Finding, 0, len(verdicts))
	for i, verdict := range verdicts {
		cctx := contexts[i]
		findings = append(findings, schema.Finding{
			FilePath:       cctx.FilePath,
			LineNumber:     cctx.LineNumber,
			Snippet:        cctx.Snippet,
			Domain:         cctx.Domain,
			Classification: verdict,
		})
	}
	return findings, nil
}
