package insights

import "time"

// Demand level and market outlook allow-lists. Values arriving from the LLM
// are normalized to uppercase and must land in these sets.
const (
	DemandHigh   = "HIGH"
	DemandMedium = "MEDIUM"
	DemandLow    = "LOW"

	OutlookPositive = "POSITIVE"
	OutlookNeutral  = "NEUTRAL"
	OutlookNegative = "NEGATIVE"
)

// IndustryInsight is cached market data for one industry, refreshed on a
// 7-day cycle (the refresher itself lives outside this service; NextUpdate
// records when it is due).
type IndustryInsight struct {
	Industry          string        `json:"industry"`
	SalaryRanges      []SalaryRange `json:"salaryRanges"`
	GrowthRate        float64       `json:"growthRate"`
	DemandLevel       string        `json:"demandLevel"`
	TopSkills         []string      `json:"topSkills"`
	MarketOutlook     string        `json:"marketOutlook"`
	KeyTrends         []string      `json:"keyTrends"`
	RecommendedSkills []string      `json:"recommendedSkills"`
	LastUpdated       time.Time     `json:"lastUpdated"`
	NextUpdate        time.Time     `json:"nextUpdate"`
}

// SalaryRange is one role's salary band within an insight.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}
