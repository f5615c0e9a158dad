package score

import (
	"regexp"
	"strings"
)

// domainPattern matches URL-shaped substrings in free text
var domainPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?([a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+)`)

// secondLevelLabels are suffix labels that indicate a multi-part
// country-code domain (e.g. bbc.co.uk)
var secondLevelLabels = map[string]bool{
	"co":  true,
	"com": true,
	"org": true,
	"net": true,
	"ac":  true,
	"gov": true,
}

// tldPattern filters out abbreviation noise like "D.C." or "U.S." that is
// domain-shaped but has no plausible top-level label
var tldPattern = regexp.MustCompile(`^[a-z]{2,}$`)

// ExtractDomain pulls the first plausible domain token from an evidence
// snippet, collapsing multi-part country-code suffixes to the last
// meaningful labels. Returns "unknown" when no domain-shaped substring is
// found.
func ExtractDomain(content string) string {
	for _, match := range domainPattern.FindAllStringSubmatch(content, -1) {
		domain := strings.ToLower(strings.Trim(match[1], "."))
		parts := strings.Split(domain, ".")
		if !tldPattern.MatchString(parts[len(parts)-1]) {
			continue
		}
		if len(parts) > 2 && secondLevelLabels[parts[len(parts)-2]] {
			return strings.Join(parts[len(parts)-3:], ".")
		}
		if len(parts) >= 2 {
			return strings.Join(parts[len(parts)-2:], ".")
		}
	}
	return "unknown"
}
