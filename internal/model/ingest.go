package model

// FileType is the detected format of an uploaded file.
type FileType string

const (
	FileTypeCSV      FileType = "csv"
	FileTypeJSON     FileType = "json"
	FileTypeText     FileType = "txt"
	FileTypePDF      FileType = "pdf"
	FileTypeMarkdown FileType = "markdown"
)

// FileCategory splits uploads into tabular sources and free-form documents.
type FileCategory string

const (
	CategoryStructured   FileCategory = "structured"
	CategoryUnstructured FileCategory = "unstructured"
)

// FileRecord describes one ingested file. Created once during ingestion and
// never modified afterwards.
type FileRecord struct {
	Filename string       `json:"filename"`
	Type     FileType     `json:"type"`
	Category FileCategory `json:"category"`
	Rows     int          `json:"rows"`
	Columns  int          `json:"columns"`
}

// IngestReport aggregates per-file records and the column rename mapping
// produced by the ingestion stage.
type IngestReport struct {
	Files             []FileRecord        `json:"files"`
	ColumnMapping     map[string]string   `json:"column_mapping"`
	StructuredCount   int                 `json:"structured_count"`
	UnstructuredCount int                 `json:"unstructured_count"`
	Unstructured      UnstructuredSummary `json:"unstructured"`
}

// UnstructuredSummary reports how the free-form documents were processed.
// Errors carries one entry per failed file so dropped inputs stay observable.
type UnstructuredSummary struct {
	FilesProcessed int            `json:"files_processed"`
	FilesFailed    int            `json:"files_failed"`
	CharsExtracted int            `json:"chars_extracted"`
	Methods        map[string]int `json:"methods"`
	Errors         []string       `json:"errors"`
}

// ExtractionMethod identifies which extraction path produced a result.
type ExtractionMethod string

const (
	MethodLLM           ExtractionMethod = "llm"
	MethodRegex         ExtractionMethod = "regex"
	MethodRegexFallback ExtractionMethod = "regex_fallback"
)

// Extraction is the metric/entity yield of one unstructured file. Metric
// values are kept as slices: a single match is treated as a scalar when the
// extraction is converted to a table row, multiple matches as a list.
type Extraction struct {
	SourceFile  string               `json:"source_file"`
	Metrics     map[string][]float64 `json:"metrics"`
	Entities    map[string][]string  `json:"entities"`
	KeyFindings []string             `json:"key_findings"`
	Sentiment   string               `json:"sentiment,omitempty"`
	DataQuality string               `json:"data_quality,omitempty"`
	Method      ExtractionMethod     `json:"method"`
}
