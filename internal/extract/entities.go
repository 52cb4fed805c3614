package extract

import (
	"regexp"
	"strings"
)

var campaignPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:campaign|promo|promotion)[:\s]*["']?([^"'.,\n]+)["']?`),
	regexp.MustCompile(`(?i)["']([^"']+(?:campaign|promo|sale|offer))["']`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`),
	regexp.MustCompile(`(?i)\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4})\b`),
}

// ExtractEntities pulls campaign names, known regions, and date tokens out
// of free-form text. Regions come from the configured gazetteer and are
// matched as whole words. Every category is present in the result, empty or
// not, and deduplicated keeping first occurrence.
func ExtractEntities(text string, regions []string) map[string][]string {
	entities := map[string][]string{
		"campaigns": {},
		"regions":   {},
		"products":  {},
		"dates":     {},
		"companies": {},
	}

	for _, p := range campaignPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if len(name) > 2 {
				entities["campaigns"] = append(entities["campaigns"], name)
			}
		}
	}

	for _, region := range regions {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(region) + `\b`)
		if re.MatchString(text) {
			entities["regions"] = append(entities["regions"], region)
		}
	}

	for _, p := range datePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			entities["dates"] = append(entities["dates"], m[1])
		}
	}

	for key, values := range entities {
		entities[key] = dedupe(values)
	}
	return entities
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
