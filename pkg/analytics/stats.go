package analytics

import (
	"math"
	"sort"
	"time"

	"instalytics/pkg/config"
)

// Posting cadence labels
const (
	FrequencyUnknown    = "Unknown"
	FrequencyDaily      = "Daily"
	FrequencyFrequent   = "Every 2-3 days"
	FrequencyWeekly     = "Weekly"
	FrequencyInfrequent = "Less than weekly"
)

// Aggregator derives the Stats block from a normalized post window.
// Computation is pure: identical inputs always yield identical output,
// and insufficient data degrades instead of erroring.
type Aggregator struct {
	cfg config.AnalyticsConfig
}

// NewAggregator creates an Aggregator with the given derivation constants
func NewAggregator(cfg config.AnalyticsConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// ComputeStats derives every aggregate metric from the supplied window.
// An empty window yields all-zero stats, not an error.
func (a *Aggregator) ComputeStats(profile Profile, posts []Post) Stats {
	stats := Stats{
		TopHashtags:       []TagCount{},
		TopMentions:       []TagCount{},
		EngagementTrend:   []TrendPoint{},
		PostingFrequency:  FrequencyUnknown,
		DayOfWeekAnalysis: []DayStats{},
		HourAnalysis:      []HourStats{},
	}

	if len(posts) == 0 {
		return stats
	}

	totalLikes := 0
	totalComments := 0
	totalViews := 0
	for i := range posts {
		totalLikes += posts[i].LikesCount
		totalComments += posts[i].CommentsCount
		if posts[i].ViewCount != nil {
			totalViews += *posts[i].ViewCount
		}
	}

	n := len(posts)
	stats.AvgLikesPerPost = roundToInt(float64(totalLikes) / float64(n))
	stats.AvgCommentsPerPost = roundToInt(float64(totalComments) / float64(n))
	stats.TotalEngagement = totalLikes + totalComments
	stats.TotalViews = totalViews

	// Defined as 0 when the account has no followers; never divide by zero
	if profile.FollowersCount > 0 {
		rate := float64(stats.AvgLikesPerPost+stats.AvgCommentsPerPost) /
			float64(profile.FollowersCount) * 100
		stats.AvgEngagementRate = roundTo2(rate)
	}

	stats.TopHashtags = topTags(posts, func(p *Post) []string { return p.Hashtags }, a.cfg.TopHashtagLimit)
	stats.TopMentions = topTags(posts, func(p *Post) []string { return p.Mentions }, a.cfg.TopMentionLimit)
	stats.EngagementTrend = engagementTrend(posts)
	stats.PostingFrequency = a.postingFrequency(posts)
	stats.MediaMix = mediaMix(posts)
	stats.AvgEngagementByType = engagementByType(posts)
	stats.DayOfWeekAnalysis = dayOfWeekAnalysis(posts)
	stats.HourAnalysis = hourAnalysis(posts)

	return stats
}

// topTags ranks tag frequency across the window, descending by count with
// first-seen order breaking ties, truncated to limit.
func topTags(posts []Post, tagsOf func(*Post) []string, limit int) []TagCount {
	counts := make(map[string]int)
	firstSeen := make([]string, 0)

	for i := range posts {
		for _, tag := range tagsOf(&posts[i]) {
			if _, seen := counts[tag]; !seen {
				firstSeen = append(firstSeen, tag)
			}
			counts[tag]++
		}
	}

	ranked := make([]TagCount, 0, len(firstSeen))
	for _, tag := range firstSeen {
		ranked = append(ranked, TagCount{Tag: tag, Count: counts[tag]})
	}

	// Stable sort over first-seen order gives the tie-break for free
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// engagementTrend sums engagement per calendar date, ascending by date.
// Dates with no posts are omitted, not zero-filled.
func engagementTrend(posts []Post) []TrendPoint {
	byDate := make(map[string]int)
	for i := range posts {
		date := posts[i].PostedAt.UTC().Format("2006-01-02")
		byDate[date] += posts[i].Engagement()
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	trend := make([]TrendPoint, 0, len(dates))
	for _, date := range dates {
		trend = append(trend, TrendPoint{Date: date, Engagement: byDate[date]})
	}
	return trend
}

// postingFrequency classifies cadence from the window's time span. A span
// needs two points, so fewer than two posts is Unknown.
func (a *Aggregator) postingFrequency(posts []Post) string {
	if len(posts) < 2 {
		return FrequencyUnknown
	}

	newest := posts[0].PostedAt
	oldest := posts[0].PostedAt
	for i := range posts {
		if posts[i].PostedAt.After(newest) {
			newest = posts[i].PostedAt
		}
		if posts[i].PostedAt.Before(oldest) {
			oldest = posts[i].PostedAt
		}
	}

	daysSpan := newest.Sub(oldest).Hours() / 24
	if daysSpan <= 0 {
		// Multiple posts within a single instant-wide span
		return FrequencyDaily
	}

	postsPerWeek := float64(len(posts)) / daysSpan * 7

	switch {
	case postsPerWeek >= a.cfg.DailyThreshold:
		return FrequencyDaily
	case postsPerWeek >= a.cfg.FrequentThreshold:
		return FrequencyFrequent
	case postsPerWeek >= a.cfg.WeeklyThreshold:
		return FrequencyWeekly
	default:
		return FrequencyInfrequent
	}
}

// mediaMix computes the percentage of posts per content kind
func mediaMix(posts []Post) MediaMix {
	if len(posts) == 0 {
		return MediaMix{}
	}

	var image, video, carousel int
	for i := range posts {
		switch posts[i].MediaKind {
		case MediaKindVideo:
			video++
		case MediaKindCarousel:
			carousel++
		default:
			image++
		}
	}

	total := float64(len(posts))
	return MediaMix{
		Image:    roundTo2(float64(image) / total * 100),
		Video:    roundTo2(float64(video) / total * 100),
		Carousel: roundTo2(float64(carousel) / total * 100),
	}
}

// engagementByType computes mean engagement per content kind; kinds with
// no posts stay at 0.
func engagementByType(posts []Post) EngagementByType {
	sums := make(map[MediaKind]int)
	counts := make(map[MediaKind]int)
	for i := range posts {
		sums[posts[i].MediaKind] += posts[i].Engagement()
		counts[posts[i].MediaKind]++
	}

	mean := func(kind MediaKind) float64 {
		if counts[kind] == 0 {
			return 0
		}
		return roundTo2(float64(sums[kind]) / float64(counts[kind]))
	}

	return EngagementByType{
		Image:    mean(MediaKindImage),
		Video:    mean(MediaKindVideo),
		Carousel: mean(MediaKindCarousel),
	}
}

// dayOfWeekAnalysis averages engagement per weekday present in the window,
// sorted descending by average engagement.
func dayOfWeekAnalysis(posts []Post) []DayStats {
	sums := make(map[time.Weekday]int)
	counts := make(map[time.Weekday]int)
	for i := range posts {
		day := posts[i].PostedAt.UTC().Weekday()
		sums[day] += posts[i].Engagement()
		counts[day]++
	}

	// Build in fixed weekday order so the stable sort is deterministic
	out := make([]DayStats, 0, len(counts))
	for day := time.Sunday; day <= time.Saturday; day++ {
		if counts[day] == 0 {
			continue
		}
		out = append(out, DayStats{
			Day:           day.String(),
			AvgEngagement: roundTo2(float64(sums[day]) / float64(counts[day])),
			PostCount:     counts[day],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagement > out[j].AvgEngagement
	})
	return out
}

// hourAnalysis averages engagement per hour of day present in the window,
// sorted descending by average engagement.
func hourAnalysis(posts []Post) []HourStats {
	sums := make(map[int]int)
	counts := make(map[int]int)
	for i := range posts {
		hour := posts[i].PostedAt.UTC().Hour()
		sums[hour] += posts[i].Engagement()
		counts[hour]++
	}

	out := make([]HourStats, 0, len(counts))
	for hour := 0; hour < 24; hour++ {
		if counts[hour] == 0 {
			continue
		}
		out = append(out, HourStats{
			Hour:          hour,
			AvgEngagement: roundTo2(float64(sums[hour]) / float64(counts[hour])),
			PostCount:     counts[hour],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgEngagement > out[j].AvgEngagement
	})
	return out
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
