package extract

import (
	"regexp"
	"strings"
)

// The substitutions run in a fixed order; each rewrites what the previous
// ones left behind.
var markdownSubs = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?m)^#+\s*`), ""},                       // headers
	{regexp.MustCompile(`\*+([^*]+)\*+`), "$1"},                  // bold/italic
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},          // links, keep text
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`), ""},           // images
	{regexp.MustCompile("```[\\s\\S]*?```"), ""},                 // fenced code
	{regexp.MustCompile("`([^`]+)`"), "$1"},                      // inline code
}

// StripMarkdown removes lightweight markup from a document, keeping the
// readable text.
func StripMarkdown(content string) string {
	for _, sub := range markdownSubs {
		content = sub.re.ReplaceAllString(content, sub.repl)
	}
	return strings.TrimSpace(content)
}

// ReadMarkdown reads a markup document and returns its plain text.
func ReadMarkdown(path string, encodings []string) (string, error) {
	content, err := ReadText(path, encodings)
	if err != nil {
		return "", err
	}
	return StripMarkdown(content), nil
}
