// Package extract pulls structured fields out of the free-form,
// labeled-section analysis text produced by the claim decomposer. The text
// is model output and cannot be assumed well-formed, so every scanner has
// explicit fallback behavior.
package extract

import (
	"regexp"
	"strings"
)

// looseQueryPattern matches list-marker lines anywhere in the text,
// quoted or not
var looseQueryPattern = regexp.MustCompile(`-\s*"?([^"\n]+)"?`)

// Queries extracts search queries from an analysis. It scans the
// "Search Queries:" section for list-marker lines first, falls back to a
// loose list-marker match over the entire text, and finally falls back to
// the claim itself, so any non-empty claim always yields at least one
// query.
func Queries(analysis, claim string) []string {
	var queries []string

	if _, section, found := strings.Cut(analysis, "Search Queries:"); found {
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
				continue
			}
			query := strings.TrimSpace(strings.TrimLeft(line, "-* "))
			query = strings.Trim(query, `"`)
			if query != "" {
				queries = append(queries, query)
			}
		}
	}

	if len(queries) == 0 {
		for _, m := range looseQueryPattern.FindAllStringSubmatch(analysis, -1) {
			query := strings.Trim(strings.TrimSpace(m[1]), `"`)
			if query != "" {
				queries = append(queries, query)
			}
		}
	}

	if len(queries) == 0 && strings.TrimSpace(claim) != "" {
		queries = []string{claim}
	}

	return queries
}

// Entities extracts up to max key entities from the "Key Entities:" section.
// Entities may be comma-separated on one line or spread across lines.
func Entities(analysis string, max int) []string {
	_, section, found := strings.Cut(analysis, "Key Entities:")
	if !found {
		return nil
	}
	if before, _, ok := strings.Cut(section, "Facts to Check:"); ok {
		section = before
	}

	var entities []string
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-* "))
		if line == "" {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			if e := strings.TrimSpace(part); e != "" {
				entities = append(entities, e)
			}
		}
	}

	if max > 0 && len(entities) > max {
		entities = entities[:max]
	}
	return entities
}
