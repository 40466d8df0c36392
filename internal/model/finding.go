package model

// CheckStatus is the verdict of one check.
type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusFail    CheckStatus = "fail"
	StatusWarning CheckStatus = "warning"
)

// Finding is one check's verdict against one audit's crawl data. Check names
// and category values are stable across runs; reports and stored history
// group by them.
type Finding struct {
	ID       string `json:"id"`
	AuditID  string `json:"audit_id"`
	Category string `json:"category"`

	// CheckName is unique within its category.
	CheckName string `json:"check_name"`

	Status CheckStatus `json:"status"`

	// ImpactScore (0-100) weighs how much a failed or warning check
	// penalizes the overall score.
	ImpactScore int `json:"impact_score"`

	// CurrentValue cites the site's actual state: specific URLs, tag names
	// and filenames from the crawl, never a generic template.
	CurrentValue     string `json:"current_value"`
	RecommendedValue string `json:"recommended_value"`
	Pros             string `json:"pros,omitempty"`
	Cons             string `json:"cons,omitempty"`
	RankingImpact    string `json:"ranking_impact"`
	Solution         string `json:"solution"`
	Enhancements     string `json:"enhancements,omitempty"`
}
