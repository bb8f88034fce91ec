package scoring

import (
	"math"
	"time"
	"topfived/internal/models"
)

const (
	trendingWindowDays = 7
	trendingWindow     = trendingWindowDays * 24 * time.Hour
	trendingScale      = 10

	weightRecentLike    = 2
	weightRecentComment = 3

	weightDebateView        = 1
	weightDebateComment     = 2
	weightDebateParticipant = 3
	weightDebateShare       = 4

	// debateDecayMillis is one day; debates decay by e^(-age/1d).
	debateDecayMillis = 86400000.0

	viralThreshold  = 1000
	highThreshold   = 500
	mediumThreshold = 100

	hotScore           = 500
	featuredQuality    = 0.8
	controversialLevel = 0.7
	trendingStat       = 50
)

func withinWindow(t, now time.Time) bool {
	return !t.IsZero() && now.Sub(t) <= trendingWindow
}

// ListTrendingScore is the average daily weighted velocity of likes and
// comments over the last seven days, scaled by ten.
func ListTrendingScore(l *models.RankedList, now time.Time) int {
	if l == nil {
		return 0
	}
	recentLikes, recentComments := 0, 0
	for _, like := range l.Likes {
		if withinWindow(like.CreatedAt, now) {
			recentLikes++
		}
	}
	for _, c := range l.Comments {
		if withinWindow(c.CreatedAt, now) {
			recentComments++
		}
	}
	velocity := float64(recentLikes*weightRecentLike+recentComments*weightRecentComment) / trendingWindowDays
	return int(math.Round(velocity * trendingScale))
}

func ListTrending(l *models.RankedList, now time.Time) models.TrendingSnapshot {
	score := float64(ListTrendingScore(l, now))
	return models.TrendingSnapshot{Score: score, Level: Classify(score)}
}

func DebateEngagement(d *models.Debate) float64 {
	if d == nil {
		return 0
	}
	return nonNegative(d.Views)*weightDebateView +
		nonNegative(d.Comments)*weightDebateComment +
		nonNegative(d.Participants)*weightDebateParticipant +
		nonNegative(d.Shares)*weightDebateShare
}

// ArgumentQuality is the mean argument quality, zero when there are none.
func ArgumentQuality(arguments []models.Argument) float64 {
	if len(arguments) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range arguments {
		sum += a.Quality
	}
	return sum / float64(len(arguments))
}

// ExponentialDecay is e^(-ageMillis/86400000).
func ExponentialDecay(createdAt, now time.Time) float64 {
	ageMillis := float64(now.Sub(orEpoch(createdAt)).Milliseconds())
	return math.Exp(-ageMillis / debateDecayMillis)
}

func DebateTrendingScore(d *models.Debate, now time.Time) float64 {
	if d == nil {
		return 0
	}
	return DebateEngagement(d) * ArgumentQuality(d.Arguments) * ExponentialDecay(d.CreatedAt, now)
}

func DebateTrending(d *models.Debate, now time.Time) models.TrendingSnapshot {
	score := DebateTrendingScore(d, now)
	return models.TrendingSnapshot{Score: score, Level: Classify(score)}
}

// Classify maps a trending score to its activity level, checking the
// highest threshold first.
func Classify(score float64) models.ActivityLevel {
	switch {
	case score > viralThreshold:
		return models.ActivityViral
	case score > highThreshold:
		return models.ActivityHigh
	case score > mediumThreshold:
		return models.ActivityMedium
	default:
		return models.ActivityLow
	}
}

// Categorize evaluates each flag independently over the stored stats.
func Categorize(stats models.DebateStats) models.DebateCategories {
	return models.DebateCategories{
		IsHot:           stats.Score > hotScore,
		IsFeatured:      stats.Quality > featuredQuality,
		IsControversial: stats.Controversy > controversialLevel,
		Trending:        stats.Trend > trendingStat,
	}
}
