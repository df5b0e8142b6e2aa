package analytics

// RiskCategory is the per-region stunting risk band derived from the
// aggregated percentage.
type RiskCategory string

const (
	CategoryHigh   RiskCategory = "High"
	CategoryMedium RiskCategory = "Medium"
	CategoryLow    RiskCategory = "Low"

	// CategoryNoData marks catalog regions with no screening records.
	// It is assigned by the joiner, never by Classify.
	CategoryNoData RiskCategory = "No Data"
)

// Prediction labels shown on the dashboard alongside the category.
const (
	PredictionNeedsAttention  = "Needs Attention"
	PredictionNeedsMonitoring = "Needs Monitoring"
	PredictionStable          = "Stable"
	PredictionNoData          = "No Data"
)

// Risk thresholds in percent.  These boundaries are an operational policy
// decision: crossing HighThreshold triggers intervention alerts downstream.
// Exactly 20.0 is Medium and exactly 10.0 is Low; the lower bound of each
// band is exclusive.
const (
	HighThreshold   = 20.0
	MediumThreshold = 10.0
)

// Classify maps a stunting percentage to its risk category and prediction
// label.  Pure threshold function, deterministic, no hidden state.
func Classify(percentage float64) (RiskCategory, string) {
	switch {
	case percentage > HighThreshold:
		return CategoryHigh, PredictionNeedsAttention
	case percentage > MediumThreshold:
		return CategoryMedium, PredictionNeedsMonitoring
	default:
		return CategoryLow, PredictionStable
	}
}
