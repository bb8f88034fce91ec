// Package scoring derives engagement and trending figures from already
// fetched lists and debates. Every function is pure: the caller reads the
// clock once and passes it in as now.
package scoring

import (
	"math"
	"time"
	"topfived/internal/models"
)

const (
	weightView     = 1
	weightLike     = 2
	weightComment  = 3
	weightShare    = 4
	weightBookmark = 2

	halfLifeHours      = 24.0
	engagementScale    = 100.0 / 1000.0
	maxEngagementScore = 100.0

	minDescriptionLength = 50
	minTagCount          = 3
	goodEngagementScore  = 60
	recentActivityWindow = 24 * time.Hour
	indicatorWeight      = 2.5
)

var epoch = time.Unix(0, 0).UTC()

// orEpoch maps an unset timestamp to the Unix epoch.
func orEpoch(t time.Time) time.Time {
	if t.IsZero() {
		return epoch
	}
	return t
}

func nonNegative(n int) float64 {
	if n < 0 {
		return 0
	}
	return float64(n)
}

// WeightedInteractions is views*1 + likes*2 + comments*3 + shares*4 + bookmarks*2.
func WeightedInteractions(l *models.RankedList) float64 {
	if l == nil {
		return 0
	}
	return nonNegative(l.Views)*weightView +
		nonNegative(len(l.Likes))*weightLike +
		nonNegative(len(l.Comments))*weightComment +
		nonNegative(l.Shares)*weightShare +
		nonNegative(l.Bookmarks)*weightBookmark
}

// HalfLifeDecay halves every 24 hours of age.
func HalfLifeDecay(createdAt, now time.Time) float64 {
	ageHours := now.Sub(orEpoch(createdAt)).Hours()
	return math.Pow(0.5, ageHours/halfLifeHours)
}

// EngagementScore returns the list's engagement normalized to [0, 100].
func EngagementScore(l *models.RankedList, now time.Time) int {
	if l == nil {
		return 0
	}
	raw := WeightedInteractions(l) * HalfLifeDecay(l.CreatedAt, now)
	normalized := math.Min(raw*engagementScale, maxEngagementScore)
	if normalized < 0 || math.IsNaN(normalized) {
		return 0
	}
	return int(math.Round(normalized))
}

// LastActivity is the latest of the list's update time and its comment times.
func LastActivity(l *models.RankedList) time.Time {
	if l == nil {
		return epoch
	}
	latest := orEpoch(l.UpdatedAt)
	for _, c := range l.Comments {
		if c.CreatedAt.After(latest) {
			latest = c.CreatedAt
		}
	}
	return latest
}

func IsRecentlyActive(l *models.RankedList, now time.Time) bool {
	return now.Sub(LastActivity(l)) <= recentActivityWindow
}

func Indicators(l *models.RankedList, now time.Time) models.QualityIndicators {
	if l == nil {
		return models.QualityIndicators{}
	}
	return models.QualityIndicators{
		HasDescription:    len(l.Description) > minDescriptionLength,
		HasTags:           len(l.Tags) >= minTagCount,
		HasGoodEngagement: EngagementScore(l, now) > goodEngagementScore,
		HasRecentActivity: IsRecentlyActive(l, now),
	}
}

// QualityScore counts the true indicators, 2.5 points each.
func QualityScore(q models.QualityIndicators) float64 {
	score := 0.0
	for _, ok := range []bool{q.HasDescription, q.HasTags, q.HasGoodEngagement, q.HasRecentActivity} {
		if ok {
			score += indicatorWeight
		}
	}
	return score
}

func Engagement(l *models.RankedList, now time.Time) models.EngagementSnapshot {
	indicators := Indicators(l, now)
	return models.EngagementSnapshot{
		Score:        EngagementScore(l, now),
		Indicators:   indicators,
		QualityScore: QualityScore(indicators),
	}
}
