package models

type QualityIndicators struct {
	HasDescription    bool `json:"hasDescription"`
	HasTags           bool `json:"hasTags"`
	HasGoodEngagement bool `json:"hasGoodEngagement"`
	HasRecentActivity bool `json:"hasRecentActivity"`
}

type EngagementSnapshot struct {
	Score        int               `json:"score"`
	Indicators   QualityIndicators `json:"indicators"`
	QualityScore float64           `json:"qualityScore"`
}

type ActivityLevel string

const (
	ActivityLow    ActivityLevel = "low"
	ActivityMedium ActivityLevel = "medium"
	ActivityHigh   ActivityLevel = "high"
	ActivityViral  ActivityLevel = "viral"
)

type TrendingSnapshot struct {
	Score float64       `json:"score"`
	Level ActivityLevel `json:"level"`
}

type DebateCategories struct {
	IsHot           bool `json:"isHot"`
	IsFeatured      bool `json:"isFeatured"`
	IsControversial bool `json:"isControversial"`
	Trending        bool `json:"trending"`
}

type ListView struct {
	List       *RankedList        `json:"list"`
	Engagement EngagementSnapshot `json:"engagement"`
	Trending   TrendingSnapshot   `json:"trending"`
}

type DebateView struct {
	Debate     *Debate          `json:"debate"`
	Trending   TrendingSnapshot `json:"trending"`
	Categories DebateCategories `json:"categories"`
}
