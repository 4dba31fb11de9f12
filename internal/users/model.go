package users

import "time"

type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	PictureURL string    `json:"pictureUrl"`
	Industry   string    `json:"industry"`
	Experience int       `json:"experience"`
	Bio        string    `json:"bio"`
	Skills     []string  `json:"skills"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// IsOnboarded reports whether the user completed onboarding. Industry is the
// marker field: it is only ever set through the profile update.
func (u User) IsOnboarded() bool {
	return u.Industry != ""
}

// ProfileUpdate carries the fields settable through onboarding/profile edit.
type ProfileUpdate struct {
	Industry   string   `json:"industry"`
	Experience int      `json:"experience"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
}

// InsightRecord mirrors the industry insight returned alongside a profile
// update. Kept local so this package does not depend on the insights package;
// bootstrap adapts between the two.
type InsightRecord struct {
	Industry          string         `json:"industry"`
	SalaryRanges      []SalaryRange  `json:"salaryRanges"`
	GrowthRate        float64        `json:"growthRate"`
	DemandLevel       string         `json:"demandLevel"`
	TopSkills         []string       `json:"topSkills"`
	MarketOutlook     string         `json:"marketOutlook"`
	KeyTrends         []string       `json:"keyTrends"`
	RecommendedSkills []string       `json:"recommendedSkills"`
	LastUpdated       time.Time      `json:"lastUpdated"`
	NextUpdate        time.Time      `json:"nextUpdate"`
}

// SalaryRange is one role's salary band within an insight.
type SalaryRange struct {
	Role     string  `json:"role"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Location string  `json:"location"`
}
