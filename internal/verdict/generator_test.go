package verdict

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/claimsift/claimsift/internal/model"
	"github.com/claimsift/claimsift/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	response string
	err      error
	prompts  []string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

const sampleEvidence = `Query: current capital of the United States
Result:
Title: Washington, D.C. - Wikipedia
URL: https://en.wikipedia.org/wiki/Washington,_D.C.
Snippet: Washington, D.C. is the capital of the United States.
---

Query: US capital history
Result:
Title: Capital history
URL: https://www.reuters.com/world/us/
Snippet: The capital moved to Washington in 1800.
---`

const validVerdictJSON = `{
	"verdict": "True",
	"confidence_score": 95,
	"confidence_reasoning": "Multiple reliable sources agree.",
	"explanation": "Both Wikipedia and Reuters confirm the claim.",
	"key_evidence_points": ["Washington, D.C. is the capital of the United States."],
	"supporting_sources_domains": ["wikipedia.org", "reuters.com"],
	"contradicting_evidence_points": ["No significant contradicting evidence found."],
	"knowledge_base_relevance": "The stored capital fact matched directly."
}`

func newTestGenerator(p *mockProvider) *Generator {
	// Registry-only scorer: both evidence domains are pre-assessed, so the
	// scorer never touches the provider.
	return NewGenerator(p, score.NewScorer(p), nil)
}

func TestGenerate_ParsesPlainJSON(t *testing.T) {
	provider := &mockProvider{response: validVerdictJSON}
	g := newTestGenerator(provider)

	record := g.Generate(context.Background(), "The capital of the United States is Washington, D.C.", sampleEvidence)

	assert.Equal(t, model.VerdictTrue, record.Verdict)
	assert.Equal(t, 95, record.ConfidenceScore)
	assert.Equal(t, "Both Wikipedia and Reuters confirm the claim.", record.Explanation)
	assert.Equal(t, []string{"wikipedia.org", "reuters.com"}, record.SupportingSources)
}

func TestGenerate_ParsesFencedJSON(t *testing.T) {
	provider := &mockProvider{response: "Here is my assessment:\n```json\n" + validVerdictJSON + "\n```\nLet me know if you need more."}
	g := newTestGenerator(provider)

	record := g.Generate(context.Background(), "claim", sampleEvidence)

	assert.Equal(t, model.VerdictTrue, record.Verdict)
	assert.Equal(t, 95, record.ConfidenceScore)
}

func TestGenerate_InvalidJSONReturnsErrorRecord(t *testing.T) {
	provider := &mockProvider{response: "I believe this claim is probably true based on the evidence."}
	g := newTestGenerator(provider)

	record := g.Generate(context.Background(), "claim", sampleEvidence)

	assert.Equal(t, model.VerdictError, record.Verdict)
	assert.Equal(t, 0, record.ConfidenceScore)
	assert.Contains(t, record.Explanation, "probably true based on the evidence",
		"explanation must embed a fragment of the raw response")
	assert.NotNil(t, record.KeyEvidencePoints)
}

func TestGenerate_MissingRequiredKeysIsParseFailure(t *testing.T) {
	provider := &mockProvider{response: `{"verdict": "True", "confidence_score": 90}`}
	g := newTestGenerator(provider)

	record := g.Generate(context.Background(), "claim", sampleEvidence)

	assert.Equal(t, model.VerdictError, record.Verdict)
	assert.Equal(t, 0, record.ConfidenceScore)
}

func TestGenerate_ProviderErrorReturnsErrorRecord(t *testing.T) {
	provider := &mockProvider{err: errors.New("model unreachable")}
	g := newTestGenerator(provider)

	record := g.Generate(context.Background(), "claim", sampleEvidence)

	assert.Equal(t, model.VerdictError, record.Verdict)
	assert.Contains(t, record.Explanation, "model unreachable")
}

func TestGenerate_PromptEmbedsAllContext(t *testing.T) {
	provider := &mockProvider{response: validVerdictJSON}
	g := newTestGenerator(provider)

	g.Generate(context.Background(), "the claim text", sampleEvidence)

	require.Len(t, provider.prompts, 1, "registry hits must not add scoring calls")
	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "CLAIM: the claim text")
	assert.Contains(t, prompt, "wikipedia.org", "reliability summary must be embedded")
	assert.Contains(t, prompt, "reuters.com")
	assert.Contains(t, prompt, noKnowledgeFacts, "nil knowledge store degrades to the sentinel")
}

func TestResultSegments(t *testing.T) {
	segments := resultSegments(sampleEvidence, 5)

	require.Len(t, segments, 2)
	assert.True(t, strings.HasPrefix(segments[0], "Title: Washington, D.C. - Wikipedia"))
	assert.False(t, strings.HasSuffix(segments[0], "---"), "block terminator must be stripped")
}

func TestResultSegments_CapAndSentinel(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("Query: q\nResult:\nsome result\n---\n\n")
	}
	assert.Len(t, resultSegments(b.String(), 5), 5)

	assert.Empty(t, resultSegments("No evidence gathered from web search.", 5))
}
