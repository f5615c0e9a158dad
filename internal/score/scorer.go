// Package score assesses the reliability of evidence sources. Known domains
// come from a static registry; unknown ones are scored once per process by
// the language model and cached in memory. Evaluation never fails: every
// path degrades to a well-formed profile.
package score

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/claimsift/claimsift/internal/llm"
	"github.com/claimsift/claimsift/internal/model"
)

const evaluationTemplate = `Evaluate the reliability of the following source based on the provided content:

SOURCE CONTENT: %s

Please analyze this source considering:
1. Credibility (official source, established news outlet, etc.)
2. Objectivity (neutral language vs. biased framing)
3. Evidence presentation (facts, citations, quotes)
4. Currency (recent vs. outdated information)

Rate the source on a scale of 1-10 for:
- RELIABILITY SCORE (1=not reliable, 10=highly reliable)
- EXPERTISE SCORE (1=no expertise, 10=high expertise)
- BIAS SCORE (1=highly biased, 10=minimal bias)

Provide your assessment in the following JSON format:
{
    "source_domain": "extracted domain or source name",
    "reliability_score": X,
    "expertise_score": X,
    "bias_score": X,
    "overall_score": X,
    "reasoning": "brief explanation"
}`

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Scorer evaluates evidence snippets into source reliability profiles
type Scorer struct {
	provider llm.Provider
	registry *Registry
}

// NewScorer creates a scorer backed by the given model provider
func NewScorer(provider llm.Provider) *Scorer {
	return &Scorer{
		provider: provider,
		registry: NewRegistry(),
	}
}

// Evaluate maps an evidence snippet to a source profile. Registry hits are
// returned without a model call; unknown domains are scored by the model and
// remembered for the rest of the process. On a malformed model response the
// profile is neutral (all 5s); on any other failure it is minimal (all 3s).
func (s *Scorer) Evaluate(ctx context.Context, content string) model.SourceProfile {
	domain := ExtractDomain(content)

	if scores, ok := s.registry.Lookup(domain); ok {
		return profileFromScores(domain, scores, "Pre-assessed source or TLD with known reliability metrics.")
	}

	raw, err := s.provider.Complete(ctx, fmt.Sprintf(evaluationTemplate, content))
	if err != nil {
		return fallbackProfile(domain, 3, fmt.Sprintf("Error evaluating source: %v", err))
	}

	profile, ok := parseEvaluation(raw, domain)
	if !ok {
		return fallbackProfile(domain, 5,
			fmt.Sprintf("Unable to parse model evaluation for %q. Using neutral score. Model output: %s", domain, truncate(raw, 200)))
	}

	s.registry.Record(profile.Domain, Scores{
		Reliability: profile.Reliability,
		Expertise:   profile.Expertise,
		Bias:        profile.Bias,
	})

	return profile
}

// parseEvaluation decodes the model's JSON assessment, tolerating a fenced
// code block around it
func parseEvaluation(raw, extractedDomain string) (model.SourceProfile, bool) {
	text := raw
	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		text = m[1]
	}

	var decoded struct {
		SourceDomain string  `json:"source_domain"`
		Reliability  float64 `json:"reliability_score"`
		Expertise    float64 `json:"expertise_score"`
		Bias         float64 `json:"bias_score"`
		Overall      float64 `json:"overall_score"`
		Reasoning    string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return model.SourceProfile{}, false
	}
	if decoded.Reliability == 0 && decoded.Expertise == 0 && decoded.Bias == 0 {
		return model.SourceProfile{}, false
	}

	domain := strings.ToLower(strings.TrimSpace(decoded.SourceDomain))
	if domain == "" || domain == "unknown" {
		domain = extractedDomain
	}

	profile := model.SourceProfile{
		Domain:      domain,
		Reliability: int(decoded.Reliability),
		Expertise:   int(decoded.Expertise),
		Bias:        int(decoded.Bias),
		Overall:     decoded.Overall,
		Reasoning:   decoded.Reasoning,
	}
	if profile.Overall == 0 {
		profile.Overall = roundedMean(profile.Reliability, profile.Expertise, profile.Bias)
	}
	return profile, true
}

func profileFromScores(domain string, scores Scores, reasoning string) model.SourceProfile {
	return model.SourceProfile{
		Domain:      domain,
		Reliability: scores.Reliability,
		Expertise:   scores.Expertise,
		Bias:        scores.Bias,
		Overall:     roundedMean(scores.Reliability, scores.Expertise, scores.Bias),
		Reasoning:   reasoning,
	}
}

func fallbackProfile(domain string, score int, reasoning string) model.SourceProfile {
	return model.SourceProfile{
		Domain:      domain,
		Reliability: score,
		Expertise:   score,
		Bias:        score,
		Overall:     float64(score),
		Reasoning:   reasoning,
	}
}

func roundedMean(a, b, c int) float64 {
	return math.Round(float64(a+b+c)/3*100) / 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
