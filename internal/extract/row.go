package extract

import (
	"strings"

	"github.com/groundtruth/insight-engine/internal/model"
	"github.com/groundtruth/insight-engine/internal/table"
)

const entitySampleSize = 5

// Row converts an Extraction into exactly one table row. A metric with one
// match becomes a scalar column under its own name; multiple matches become
// <name>_total and <name>_count. Entity lists become <class>_count plus a
// joined sample of the first values.
func Row(ex *model.Extraction) map[string]table.Value {
	row := map[string]table.Value{
		"source_file":       table.String(ex.SourceFile),
		"extraction_method": table.String(string(ex.Method)),
	}

	for name, values := range ex.Metrics {
		switch {
		case len(values) == 1:
			row[name] = table.Number(values[0])
		case len(values) > 1:
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			row[name+"_total"] = table.Number(sum)
			row[name+"_count"] = table.Number(float64(len(values)))
		}
	}

	for class, values := range ex.Entities {
		row[class+"_count"] = table.Number(float64(len(values)))
		if len(values) > 0 {
			sample := values
			if len(sample) > entitySampleSize {
				sample = sample[:entitySampleSize]
			}
			row[class+"_list"] = table.String(strings.Join(sample, ", "))
		}
	}

	if len(ex.KeyFindings) > 0 {
		row["key_findings"] = table.String(strings.Join(ex.KeyFindings, " | "))
	}
	if ex.Sentiment != "" {
		row["sentiment"] = table.String(ex.Sentiment)
	}

	return row
}
