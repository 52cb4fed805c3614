package model

// KPIBundle is the complete output of the analytics stage. Every section is
// always present — empty maps and slices, never omitted keys — so downstream
// consumers see a stable structure regardless of which optional branches ran.
type KPIBundle struct {
	BasicMetrics     map[string]float64       `json:"basic_metrics"`
	TopPerformers    map[string][]TopEntry    `json:"top_performers"`
	PeriodComparison PeriodComparison         `json:"period_comparison"`
	Anomalies        map[string]AnomalyReport `json:"anomalies"`
	Correlations     Correlations             `json:"correlations"`
	Summary          Summary                  `json:"summary"`
	Snapshot         Snapshot                 `json:"data_snapshot"`
}

// TopEntry is one ranked category under a top-performer dimension.
type TopEntry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PeriodComparison holds period-over-period deltas. Empty when no temporal
// column spans at least two days.
type PeriodComparison struct {
	Period1Dates string                  `json:"period1_dates"`
	Period2Dates string                  `json:"period2_dates"`
	Changes      map[string]PeriodChange `json:"changes"`
}

// PeriodChange compares one metric's totals across the two periods.
type PeriodChange struct {
	Period1Total float64 `json:"period1_total"`
	Period2Total float64 `json:"period2_total"`
	ChangePct    float64 `json:"change_pct"`
}

// AnomalyReport describes the outliers found in one numeric column.
type AnomalyReport struct {
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Values     []float64 `json:"values"`
	Mean       float64   `json:"mean"`
	Std        float64   `json:"std"`
}

// CorrelationPair is one significant pairwise correlation.
type CorrelationPair struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
}

// Correlations reports significant pairs plus the raw weather/traffic
// cross-correlations, which are included regardless of strength.
type Correlations struct {
	SignificantPairs []CorrelationPair  `json:"significant_pairs"`
	TotalVariables   int                `json:"total_variables"`
	WeatherTraffic   map[string]float64 `json:"weather_traffic"`
}

// Summary holds dataset-level statistics for the final table.
type Summary struct {
	TotalRows         int     `json:"total_rows"`
	TotalColumns      int     `json:"total_columns"`
	NumericColumns    int     `json:"numeric_columns"`
	TextColumns       int     `json:"categorical_columns"`
	TemporalColumns   int     `json:"datetime_columns"`
	MissingValues     int     `json:"missing_values"`
	MissingPercentage float64 `json:"missing_percentage"`
	DateRangeStart    string  `json:"date_range_start"`
	DateRangeEnd      string  `json:"date_range_end"`
	TotalDays         int     `json:"total_days"`
}

// Snapshot gives downstream consumers the final table's column list and a
// few sample rows.
type Snapshot struct {
	Columns      []string         `json:"columns"`
	SampleValues []map[string]any `json:"sample_values"`
}
