package model

// SourceProfile is a reliability assessment for one evidence source.
// Scores are 1-10 (10 = best); Overall is the mean of the three.
type SourceProfile struct {
	Domain      string  `json:"source_domain"`
	Reliability int     `json:"reliability_score"`
	Expertise   int     `json:"expertise_score"`
	Bias        int     `json:"bias_score"` // 1 = highly biased, 10 = minimal bias
	Overall     float64 `json:"overall_score"`
	Reasoning   string  `json:"reasoning"`
}
