package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// metricPattern is one named pattern in the fixed extraction set. Count
// patterns accept both "12,000 impressions" and "Impressions: 12,000".
type metricPattern struct {
	name string
	re   *regexp.Regexp
}

var metricPatterns = []metricPattern{
	{"percentages", regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)},
	{"dollar_amounts", regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`)},
	{"large_numbers", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*([KMB])\b`)},
	{"impressions", regexp.MustCompile(`(?i)(?:impressions?|views?)[:\s]+(\d+(?:,\d{3})*)|(\d+(?:,\d{3})*)\s*(?:impressions?|views?)`)},
	{"clicks", regexp.MustCompile(`(?i)(?:clicks?)[:\s]+(\d+(?:,\d{3})*)|(\d+(?:,\d{3})*)\s*clicks?`)},
	{"conversions", regexp.MustCompile(`(?i)(?:conversions?)[:\s]+(\d+(?:,\d{3})*)|(\d+(?:,\d{3})*)\s*conversions?`)},
	{"visitors", regexp.MustCompile(`(?i)(?:visitors?|users?)[:\s]+(\d+(?:,\d{3})*)|(\d+(?:,\d{3})*)\s*(?:visitors?|users?)`)},
	{"ctr", regexp.MustCompile(`(?i)(?:ctr|click[- ]?through[- ]?rate)[:\s]*(\d+(?:\.\d+)?)\s*%?`)},
}

var magnitudes = map[string]float64{"K": 1e3, "M": 1e6, "B": 1e9}

// ExtractMetrics applies the fixed pattern set to free-form text. Each
// pattern may match zero or more times; patterns with no matches are simply
// absent from the result.
func ExtractMetrics(text string) map[string][]float64 {
	metrics := make(map[string][]float64)

	for _, p := range metricPatterns {
		matches := p.re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		var values []float64
		for _, m := range matches {
			if p.name == "large_numbers" {
				num, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					continue
				}
				values = append(values, num*magnitudes[strings.ToUpper(m[2])])
				continue
			}
			raw := firstGroup(m)
			num, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
			if err != nil {
				continue
			}
			values = append(values, num)
		}
		if len(values) > 0 {
			metrics[p.name] = values
		}
	}

	return metrics
}

// firstGroup returns the first non-empty capture group of a submatch.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
