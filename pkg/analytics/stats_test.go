package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/config"
)

func testAggregator() *Aggregator {
	return NewAggregator(config.DefaultConfig().Analytics)
}

func postAt(ts time.Time, kind MediaKind, likes, comments int) Post {
	return Post{
		MediaKind:     kind,
		PostedAt:      ts,
		LikesCount:    likes,
		CommentsCount: comments,
	}
}

func TestComputeStatsAverages(t *testing.T) {
	agg := testAggregator()
	when := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	profile := Profile{Handle: "someuser", FollowersCount: 1000}
	posts := []Post{
		postAt(when, MediaKindImage, 100, 10),
		postAt(when, MediaKindVideo, 200, 20),
	}

	stats := agg.ComputeStats(profile, posts)

	assert.Equal(t, 150, stats.AvgLikesPerPost)
	assert.Equal(t, 15, stats.AvgCommentsPerPost)
	assert.Equal(t, 16.5, stats.AvgEngagementRate)
	assert.Equal(t, 330, stats.TotalEngagement)

	require.Len(t, stats.EngagementTrend, 1)
	assert.Equal(t, TrendPoint{Date: "2024-01-01", Engagement: 330}, stats.EngagementTrend[0])

	assert.Equal(t, 50.0, stats.MediaMix.Image)
	assert.Equal(t, 50.0, stats.MediaMix.Video)
	assert.Equal(t, 0.0, stats.MediaMix.Carousel)
}

func TestComputeStatsZeroFollowers(t *testing.T) {
	agg := testAggregator()
	posts := []Post{
		postAt(time.Now(), MediaKindImage, 100, 10),
	}

	stats := agg.ComputeStats(Profile{Handle: "fresh"}, posts)

	assert.Equal(t, 0.0, stats.AvgEngagementRate, "no followers means rate is defined as zero")
	assert.Equal(t, 100, stats.AvgLikesPerPost, "other metrics still compute")
}

func TestComputeStatsEmptyWindow(t *testing.T) {
	agg := testAggregator()
	stats := agg.ComputeStats(Profile{Handle: "quiet", FollowersCount: 1000}, nil)

	assert.Equal(t, 0, stats.AvgLikesPerPost)
	assert.Equal(t, 0, stats.AvgCommentsPerPost)
	assert.Equal(t, 0.0, stats.AvgEngagementRate)
	assert.Equal(t, 0, stats.TotalEngagement)
	assert.Equal(t, 0, stats.TotalViews)
	assert.Equal(t, FrequencyUnknown, stats.PostingFrequency)

	// Empty slices, not nil, so JSON renders [] instead of null
	assert.NotNil(t, stats.TopHashtags)
	assert.Empty(t, stats.TopHashtags)
	assert.NotNil(t, stats.TopMentions)
	assert.Empty(t, stats.TopMentions)
	assert.NotNil(t, stats.EngagementTrend)
	assert.Empty(t, stats.EngagementTrend)
	assert.NotNil(t, stats.DayOfWeekAnalysis)
	assert.Empty(t, stats.DayOfWeekAnalysis)
	assert.NotNil(t, stats.HourAnalysis)
	assert.Empty(t, stats.HourAnalysis)
}

func TestComputeStatsTopHashtags(t *testing.T) {
	agg := testAggregator()
	when := time.Now()

	posts := []Post{
		{PostedAt: when, Hashtags: []string{"sunset", "sunset"}, Mentions: []string{"beachclub"}},
	}

	stats := agg.ComputeStats(Profile{Handle: "someuser", FollowersCount: 10}, posts)

	require.Len(t, stats.TopHashtags, 1)
	assert.Equal(t, TagCount{Tag: "sunset", Count: 2}, stats.TopHashtags[0])
	require.Len(t, stats.TopMentions, 1)
	assert.Equal(t, TagCount{Tag: "beachclub", Count: 1}, stats.TopMentions[0])
}

func TestTopTagsTieBreakAndCap(t *testing.T) {
	posts := []Post{
		{Hashtags: []string{"beta", "alpha"}},
		{Hashtags: []string{"beta", "alpha", "gamma"}},
	}

	ranked := topTags(posts, func(p *Post) []string { return p.Hashtags }, 10)
	require.Len(t, ranked, 3)
	// beta and alpha tie at 2; first appearance wins
	assert.Equal(t, "beta", ranked[0].Tag)
	assert.Equal(t, "alpha", ranked[1].Tag)
	assert.Equal(t, "gamma", ranked[2].Tag)

	capped := topTags(posts, func(p *Post) []string { return p.Hashtags }, 2)
	require.Len(t, capped, 2)
	assert.Equal(t, "beta", capped[0].Tag)
	assert.Equal(t, "alpha", capped[1].Tag)
}

func TestEngagementTrendGrouping(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 20, 0, 0, 0, time.UTC)

	posts := []Post{
		postAt(day2, MediaKindImage, 50, 5),
		postAt(day1, MediaKindImage, 10, 1),
		postAt(day1, MediaKindImage, 20, 2),
	}

	trend := engagementTrend(posts)
	require.Len(t, trend, 2)
	assert.Equal(t, TrendPoint{Date: "2024-03-01", Engagement: 33}, trend[0], "ascending by date")
	assert.Equal(t, TrendPoint{Date: "2024-03-02", Engagement: 55}, trend[1])
}

func TestPostingFrequencyClassification(t *testing.T) {
	agg := testAggregator()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	spread := func(count int, span time.Duration) []Post {
		posts := make([]Post, count)
		for i := 0; i < count; i++ {
			offset := time.Duration(i) * span / time.Duration(count-1)
			posts[i] = postAt(base.Add(offset), MediaKindImage, 1, 0)
		}
		return posts
	}

	tests := []struct {
		name  string
		posts []Post
		want  string
	}{
		{"no posts", nil, FrequencyUnknown},
		{"single post", []Post{postAt(base, MediaKindImage, 1, 0)}, FrequencyUnknown},
		{"same timestamp pair", []Post{postAt(base, MediaKindImage, 1, 0), postAt(base, MediaKindImage, 2, 0)}, FrequencyDaily},
		{"daily cadence", spread(8, 7*24*time.Hour), FrequencyDaily},
		{"every few days", spread(4, 7*24*time.Hour), FrequencyFrequent},
		{"weekly cadence", spread(3, 14*24*time.Hour), FrequencyWeekly},
		{"sparse", spread(2, 30*24*time.Hour), FrequencyInfrequent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, agg.postingFrequency(tt.posts))
		})
	}
}

func TestMediaMixSumsToHundred(t *testing.T) {
	posts := []Post{
		{MediaKind: MediaKindImage},
		{MediaKind: MediaKindImage},
		{MediaKind: MediaKindVideo},
		{MediaKind: MediaKindCarousel},
		{MediaKind: MediaKindCarousel},
		{MediaKind: MediaKindCarousel},
	}

	mix := mediaMix(posts)
	assert.InDelta(t, 33.33, mix.Image, 0.01)
	assert.InDelta(t, 16.67, mix.Video, 0.01)
	assert.InDelta(t, 50.0, mix.Carousel, 0.01)
	assert.InDelta(t, 100.0, mix.Image+mix.Video+mix.Carousel, 0.02)
}

func TestEngagementByType(t *testing.T) {
	posts := []Post{
		postAt(time.Now(), MediaKindImage, 10, 0),
		postAt(time.Now(), MediaKindImage, 20, 0),
		postAt(time.Now(), MediaKindVideo, 100, 5),
	}

	byType := engagementByType(posts)
	assert.Equal(t, 15.0, byType.Image)
	assert.Equal(t, 105.0, byType.Video)
	assert.Equal(t, 0.0, byType.Carousel, "absent kinds stay at zero")
}

func TestDayAndHourAnalysis(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-06 a Saturday
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, 1, 6, 21, 0, 0, 0, time.UTC)

	posts := []Post{
		postAt(monday, MediaKindImage, 10, 0),
		postAt(monday.Add(time.Hour), MediaKindImage, 30, 0),
		postAt(saturday, MediaKindImage, 100, 0),
	}

	days := dayOfWeekAnalysis(posts)
	require.Len(t, days, 2)
	assert.Equal(t, DayStats{Day: "Saturday", AvgEngagement: 100, PostCount: 1}, days[0])
	assert.Equal(t, DayStats{Day: "Monday", AvgEngagement: 20, PostCount: 2}, days[1])

	hours := hourAnalysis(posts)
	require.Len(t, hours, 3)
	assert.Equal(t, 21, hours[0].Hour, "highest engagement hour first")
	assert.Equal(t, 100.0, hours[0].AvgEngagement)
}

func TestComputeStatsDeterministic(t *testing.T) {
	agg := testAggregator()
	base := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

	profile := Profile{Handle: "someuser", FollowersCount: 2500}
	posts := []Post{
		{MediaKind: MediaKindImage, PostedAt: base, LikesCount: 40, CommentsCount: 4, Hashtags: []string{"go", "code"}},
		{MediaKind: MediaKindVideo, PostedAt: base.AddDate(0, 0, -2), LikesCount: 90, CommentsCount: 9, Hashtags: []string{"code"}},
		{MediaKind: MediaKindCarousel, PostedAt: base.AddDate(0, 0, -5), LikesCount: 40, CommentsCount: 4, Hashtags: []string{"go"}},
	}

	first := agg.ComputeStats(profile, posts)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, agg.ComputeStats(profile, posts))
	}
}
