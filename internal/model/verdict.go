package model

import "time"

// Verdict categories. The synthesizer only ever emits one of these; anything
// the model returns outside this set is passed through verbatim so the caller
// can still see what happened.
const (
	VerdictTrue          = "True"
	VerdictFalse         = "False"
	VerdictPartiallyTrue = "Partially True"
	VerdictUnverifiable  = "Unverifiable"
	VerdictError         = "Error"
)

// VerdictRecord is the structured judgment for one claim
type VerdictRecord struct {
	Verdict                string   `json:"verdict"`                       // True/False/Partially True/Unverifiable/Error
	ConfidenceScore        int      `json:"confidence_score"`              // 0-100
	ConfidenceReasoning    string   `json:"confidence_reasoning"`          // Why this confidence level
	Explanation            string   `json:"explanation"`                   // Step-by-step reasoning
	KeyEvidencePoints      []string `json:"key_evidence_points"`           // Most important evidence
	SupportingSources      []string `json:"supporting_sources_domains"`    // Domains backing the verdict
	ContradictingEvidence  []string `json:"contradicting_evidence_points"` // Evidence against, if any
	KnowledgeBaseRelevance string   `json:"knowledge_base_relevance"`      // How stored facts influenced the verdict
}

// Result is the complete output of one claim-verification run
type Result struct {
	Claim    string        `json:"claim"`
	Analysis string        `json:"analysis"` // Raw labeled-section analysis text
	Evidence string        `json:"evidence"` // Combined evidence transcript
	Verdict  VerdictRecord `json:"verdict"`
}

// HistoryEntry records one processed claim in the run log
type HistoryEntry struct {
	Claim          string        `json:"claim"`
	Analysis       string        `json:"analysis"`
	Evidence       string        `json:"evidence"`
	Verdict        VerdictRecord `json:"verdict"`
	Timestamp      time.Time     `json:"timestamp"`
	ProcessingTime time.Duration `json:"processing_time"`
}
