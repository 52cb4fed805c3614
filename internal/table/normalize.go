package table

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	separatorRuns = regexp.MustCompile(`[\s\-.]+`)
	nonIdentifier = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeName canonicalizes a raw column label into a stable identifier:
// lowercase, separator runs collapsed to a single underscore, every other
// non-alphanumeric character dropped, leading/trailing underscores trimmed.
// Idempotent: normalizing an already-normalized name is a no-op.
func NormalizeName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = separatorRuns.ReplaceAllString(s, "_")
	s = nonIdentifier.ReplaceAllString(s, "")
	s = underscoreRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// Normalize returns a copy of the table with every column renamed via
// NormalizeName, plus the original→normalized mapping. Collisions keep the
// first column's name and suffix later ones (_2, _3, ...) so names stay
// unique.
func Normalize(t *Table) (*Table, map[string]string) {
	out := New()
	mapping := make(map[string]string, len(t.cols))
	for _, c := range t.cols {
		name := NormalizeName(c.Name)
		if name == "" {
			name = "column"
		}
		unique := name
		for n := 2; out.Has(unique); n++ {
			unique = fmt.Sprintf("%s_%d", name, n)
		}
		cells := make([]Value, len(c.Cells))
		copy(cells, c.Cells)
		_ = out.AddColumn(unique, cells) // unique by construction
		mapping[c.Name] = unique
	}
	if out.rows < t.rows {
		out.grow(t.rows)
	}
	return out, mapping
}
