// Package verdict synthesizes the final judgment for a claim from its
// evidence transcript, source reliability profiles, and stored knowledge.
// Generation never fails outward: every malformed model response degrades
// to a deterministic Error record.
package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/claimsift/claimsift/internal/knowledge"
	"github.com/claimsift/claimsift/internal/llm"
	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/score"
)

const verdictTemplate = `You are an impartial fact-checker evaluating the truth of a claim based on evidence.

CLAIM: %s

EVIDENCE FROM SEARCH (snippets from web search results):
%s

RELEVANT FACTS FROM KNOWLEDGE BASE:
%s

SOURCE RELIABILITY ANALYSIS (scores 1-10, 10=best):
%s

Carefully analyze all provided information. Consider:
1. How directly the evidence addresses the claim.
2. Reliability of sources (higher weight to more reliable sources).
3. Consistency across multiple sources and with the knowledge base.
4. Contradictions or nuances in the evidence.

Provide your verdict as a detailed JSON object with the following structure:
{
    "verdict": "True/False/Partially True/Unverifiable",
    "confidence_score": <number_between_0_and_100>,
    "confidence_reasoning": "Brief explanation of why this confidence level was chosen, considering evidence strength and source reliability.",
    "explanation": "Detailed step-by-step explanation of the verdict, citing specific evidence and how it supports or refutes the claim. Mention how knowledge base facts and source reliability influenced the decision.",
    "key_evidence_points": ["List of the most important pieces of evidence that led to this verdict."],
    "supporting_sources_domains": ["List of domains of the most reliable sources that support the verdict."],
    "contradicting_evidence_points": ["List any significant evidence that contradicts the verdict or introduces nuance. If none, state 'No significant contradicting evidence found.'"],
    "knowledge_base_relevance": "Briefly describe how knowledge base facts (if any) were relevant to the verdict."
}

Ensure your verdict is evidence-based and your confidence score accurately reflects the strength and reliability of the evidence.
If evidence is weak, conflicting, or from unreliable sources, state 'Unverifiable' and explain why.`

const (
	maxScoredSegments = 5
	knowledgeFactsK   = 3
	noKnowledgeFacts  = "No relevant facts found in knowledge base."
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// Generator combines claim, evidence, source scores, and knowledge facts
// into one verdict record
type Generator struct {
	provider  llm.Provider
	scorer    *score.Scorer
	knowledge *knowledge.Store
}

// NewGenerator creates a verdict generator. The knowledge store may be nil,
// in which case no background facts are consulted.
func NewGenerator(provider llm.Provider, scorer *score.Scorer, kb *knowledge.Store) *Generator {
	return &Generator{
		provider:  provider,
		scorer:    scorer,
		knowledge: kb,
	}
}

// Generate synthesizes a verdict for the claim from its evidence transcript
func (g *Generator) Generate(ctx context.Context, claim, evidence string) model.VerdictRecord {
	reliability := g.reliabilitySummary(ctx, evidence)
	facts := g.knowledgeFacts(ctx, claim)

	prompt := fmt.Sprintf(verdictTemplate, claim, evidence, facts, reliability)

	raw, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return errorRecord(fmt.Sprintf("The verdict request failed: %v", err))
	}

	record, ok := parseVerdict(raw)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: could not parse verdict output: %s\n", truncate(raw, 200))
		return errorRecord(raw)
	}
	return record
}

// reliabilitySummary splits the evidence transcript back into per-query
// result segments, scores the first few, and renders the profiles as JSON
func (g *Generator) reliabilitySummary(ctx context.Context, evidence string) string {
	var profiles []model.SourceProfile
	for _, segment := range resultSegments(evidence, maxScoredSegments) {
		profiles = append(profiles, g.scorer.Evaluate(ctx, segment))
	}

	if len(profiles) == 0 {
		return "No sources to evaluate."
	}

	summary, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return "No sources to evaluate."
	}
	return string(summary)
}

// knowledgeFacts queries the store for background facts relevant to the
// claim; failures degrade to the no-facts sentinel
func (g *Generator) knowledgeFacts(ctx context.Context, claim string) string {
	if g.knowledge == nil {
		return noKnowledgeFacts
	}

	facts, err := g.knowledge.Query(ctx, claim, knowledgeFactsK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: knowledge base query failed: %v\n", err)
		return noKnowledgeFacts
	}
	if len(facts) == 0 {
		return noKnowledgeFacts
	}
	return strings.Join(facts, "\n")
}

// resultSegments extracts the result body of each "Query: ... Result: ..."
// block, up to max segments
func resultSegments(evidence string, max int) []string {
	var segments []string
	blocks := strings.Split(evidence, "Query:")
	for _, block := range blocks[min(1, len(blocks)):] {
		_, result, found := strings.Cut(block, "Result:")
		if !found {
			continue
		}
		result = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(result), "---"))
		if result != "" {
			segments = append(segments, result)
		}
		if len(segments) >= max {
			break
		}
	}
	return segments
}

// parseVerdict decodes the model's verdict JSON: a fenced block first,
// then the whole response. The verdict, confidence_score, and explanation
// keys are mandatory.
func parseVerdict(raw string) (model.VerdictRecord, bool) {
	text := raw
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	var decoded struct {
		Verdict                *string  `json:"verdict"`
		ConfidenceScore        *float64 `json:"confidence_score"`
		ConfidenceReasoning    string   `json:"confidence_reasoning"`
		Explanation            *string  `json:"explanation"`
		KeyEvidencePoints      []string `json:"key_evidence_points"`
		SupportingSources      []string `json:"supporting_sources_domains"`
		ContradictingEvidence  []string `json:"contradicting_evidence_points"`
		KnowledgeBaseRelevance string   `json:"knowledge_base_relevance"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return model.VerdictRecord{}, false
	}
	if decoded.Verdict == nil || decoded.ConfidenceScore == nil || decoded.Explanation == nil {
		return model.VerdictRecord{}, false
	}

	return model.VerdictRecord{
		Verdict:                *decoded.Verdict,
		ConfidenceScore:        int(math.Round(*decoded.ConfidenceScore)),
		ConfidenceReasoning:    decoded.ConfidenceReasoning,
		Explanation:            *decoded.Explanation,
		KeyEvidencePoints:      decoded.KeyEvidencePoints,
		SupportingSources:      decoded.SupportingSources,
		ContradictingEvidence:  decoded.ContradictingEvidence,
		KnowledgeBaseRelevance: decoded.KnowledgeBaseRelevance,
	}, true
}

// errorRecord is the deterministic fallback when the model's output could
// not be parsed or obtained
func errorRecord(raw string) model.VerdictRecord {
	return model.VerdictRecord{
		Verdict:                model.VerdictError,
		ConfidenceScore:        0,
		ConfidenceReasoning:    "Failed to parse the model's verdict output. The structure was not valid JSON.",
		Explanation:            fmt.Sprintf("Could not generate a structured verdict due to a parsing error. Raw model output (partial): %s", truncate(raw, 2000)),
		KeyEvidencePoints:      []string{},
		SupportingSources:      []string{},
		ContradictingEvidence:  []string{},
		KnowledgeBaseRelevance: "Could not be determined due to parsing error.",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
