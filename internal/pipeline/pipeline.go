// Package pipeline sequences the claim-verification stages: decompose the
// claim, collect evidence, synthesize a verdict, and feed high-confidence
// conclusions back into the knowledge store. One claim is processed
// start-to-finish before the next begins; there is no parallel fan-out.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/claimsift/claimsift/internal/cache"
	"github.com/claimsift/claimsift/internal/extract"
	"github.com/claimsift/claimsift/internal/history"
	"github.com/claimsift/claimsift/internal/knowledge"
	"github.com/claimsift/claimsift/internal/llm"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/score"
	"github.com/claimsift/claimsift/internal/search"
	"github.com/claimsift/claimsift/internal/verdict"
)

const analysisTemplate = `Analyze the following claim and break it down into key components for verification:
CLAIM: %s

Identify:
1. Main assertion(s) being made.
2. Key entities (people, organizations, locations, concepts) mentioned.
3. Specific factual sub-claims or questions that need to be checked to verify the overall claim.
4. Generate 3 to 5 diverse and specific search queries that would help gather evidence to verify these sub-claims.
   Focus on queries that seek factual information, not opinions.

Provide your output in the following format:
Main Assertion: <The central point of the claim>
Key Entities: <Entity1, Entity2, ...>
Facts to Check:
- <Fact/Question 1>
- <Fact/Question 2>
...
Search Queries:
- "<Query 1>"
- "<Query 2>"
- "<Query 3>"`

// confidenceThreshold gates knowledge-base write-back: only conclusions at
// or above it, with a definite True/False verdict, become stored facts
const confidenceThreshold = 75

// Pipeline owns the process-wide cache lifecycle and coordinates the
// verification stages. External client handles are constructed once per
// process and injected here.
type Pipeline struct {
	provider     llm.Provider
	collector    *Collector
	generator    *verdict.Generator
	knowledge    *knowledge.Store
	verdictCache *cache.Store
	history      *history.Store
	storeErrors  bool
}

// New wires a complete pipeline from configuration. Construction fails
// fast on missing provider configuration; degraded optional collaborators
// (knowledge store without an embedder) only warn.
func New(ctx context.Context, cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	embedder, err := llm.NewEmbedder(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}

	kb, err := knowledge.Open(ctx, cfg.Knowledge.Dir, embedder, cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}

	searchCache, err := cache.Open(filepath.Join(cfg.Cache.Dir, "search_cache.json"), cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("open search cache: %w", err)
	}

	verdictCache, err := cache.Open(filepath.Join(cfg.Cache.Dir, "verdict_cache.json"), cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("open verdict cache: %w", err)
	}

	hist := history.Open(cfg.History.Path, cfg.History.MaxEntries)

	scorer := score.NewScorer(provider)

	return &Pipeline{
		provider:     provider,
		collector:    NewCollector(search.NewDuckDuckGo(cfg.Search), searchCache),
		generator:    verdict.NewGenerator(provider, scorer, kb),
		knowledge:    kb,
		verdictCache: verdictCache,
		history:      hist,
		storeErrors:  cfg.Cache.StoreErrors,
	}, nil
}

// Knowledge exposes the fact store for direct maintenance commands
func (p *Pipeline) Knowledge() *knowledge.Store {
	return p.knowledge
}

// History exposes the run log
func (p *Pipeline) History() *history.Store {
	return p.history
}

// Process verifies one claim. A verdict-cache hit short-circuits the whole
// run; otherwise the claim is decomposed, evidence collected, and a verdict
// synthesized. The result is always cached (Error verdicts included unless
// configured otherwise) and appended to the history log.
func (p *Pipeline) Process(ctx context.Context, claim string) (*model.Result, error) {
	key := cache.Key(claim)
	if payload, ok := p.verdictCache.Get(key); ok {
		var cached model.Result
		if err := json.Unmarshal(payload, &cached); err == nil {
			return &cached, nil
		}
		// Undecodable cached payload: treat as a miss and reprocess
	}

	start := time.Now()

	analysis := p.decompose(ctx, claim)
	queries := extract.Queries(analysis, claim)
	evidence := p.collector.Collect(ctx, queries)
	record := p.generator.Generate(ctx, claim, evidence)

	p.rememberConclusion(ctx, claim, record)

	result := &model.Result{
		Claim:    claim,
		Analysis: analysis,
		Evidence: evidence,
		Verdict:  record,
	}

	if record.Verdict != model.VerdictError || p.storeErrors {
		if payload, err := json.Marshal(result); err == nil {
			if err := p.verdictCache.Put(key, payload); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not cache verdict: %v\n", err)
			}
		}
	}

	if err := p.history.Append(model.HistoryEntry{
		Claim:          claim,
		Analysis:       analysis,
		Evidence:       evidence,
		Verdict:        record,
		Timestamp:      start,
		ProcessingTime: time.Since(start),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not persist history: %v\n", err)
	}

	return result, nil
}

// decompose asks the model for the labeled-section analysis. A provider
// failure degrades to a placeholder analysis; the query-extraction fallback
// chain then searches the claim verbatim.
func (p *Pipeline) decompose(ctx context.Context, claim string) string {
	analysis, err := p.provider.Complete(ctx, fmt.Sprintf(analysisTemplate, claim))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: claim analysis failed: %v\n", err)
		return fmt.Sprintf("Analysis unavailable: %v", err)
	}
	return analysis
}

// rememberConclusion writes definite high-confidence verdicts back into the
// knowledge store so future lookups benefit from them
func (p *Pipeline) rememberConclusion(ctx context.Context, claim string, record model.VerdictRecord) {
	if p.knowledge == nil || record.ConfidenceScore < confidenceThreshold {
		return
	}

	var fact string
	switch strings.ToLower(record.Verdict) {
	case "true":
		fact = fmt.Sprintf("It is true that: %s", claim)
	case "false":
		fact = fmt.Sprintf("It is false that: %s", claim)
	default:
		return
	}

	if err := p.knowledge.Add(ctx, fact); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not store conclusion: %v\n", err)
	}
}
