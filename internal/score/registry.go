package score

import (
	gocache "github.com/patrickmn/go-cache"
)

// Scores holds the three 1-10 components of a source assessment
type Scores struct {
	Reliability int
	Expertise   int
	Bias        int
}

// Registry maps domains to reliability scores. It has a fixed static tier
// plus a dynamic tier that grows as unknown domains are assessed by the
// model. The dynamic tier is scoped to the process lifetime and
// intentionally never persisted.
type Registry struct {
	static  map[string]Scores
	dynamic *gocache.Cache
}

// genericTLDKeys are registry keys matched by suffix rather than exactly;
// they are never written to by Record
var genericTLDKeys = []string{"gov", "edu"}

// NewRegistry creates a registry seeded with the pre-assessed sources
func NewRegistry() *Registry {
	return &Registry{
		static: map[string]Scores{
			"bbc.com":       {Reliability: 8, Expertise: 8, Bias: 7},
			"nytimes.com":   {Reliability: 8, Expertise: 8, Bias: 6},
			"reuters.com":   {Reliability: 9, Expertise: 9, Bias: 8},
			"wikipedia.org": {Reliability: 7, Expertise: 7, Bias: 7},
			"cnn.com":       {Reliability: 7, Expertise: 7, Bias: 5},
			"foxnews.com":   {Reliability: 6, Expertise: 6, Bias: 4},
			"theonion.com":  {Reliability: 1, Expertise: 5, Bias: 5}, // Satire
			"gov":           {Reliability: 8, Expertise: 9, Bias: 6}, // Generic TLD
			"edu":           {Reliability: 8, Expertise: 9, Bias: 7}, // Generic TLD
		},
		dynamic: gocache.New(gocache.NoExpiration, 0),
	}
}

// Lookup returns scores for a domain. Exact matches (static or dynamic)
// win over the generic .gov/.edu suffix tiers.
func (r *Registry) Lookup(domain string) (Scores, bool) {
	if s, ok := r.static[domain]; ok {
		return s, true
	}
	if v, ok := r.dynamic.Get(domain); ok {
		return v.(Scores), true
	}
	for _, tld := range genericTLDKeys {
		if len(domain) > len(tld)+1 && domain[len(domain)-len(tld)-1:] == "."+tld {
			return r.static[tld], true
		}
	}
	return Scores{}, false
}

// Record caches a freshly assessed domain for reuse within this process.
// Generic TLD keys and unextractable domains are skipped.
func (r *Registry) Record(domain string, scores Scores) {
	if domain == "" || domain == "unknown" {
		return
	}
	for _, tld := range genericTLDKeys {
		if domain == tld {
			return
		}
	}
	r.dynamic.Set(domain, scores, gocache.NoExpiration)
}
