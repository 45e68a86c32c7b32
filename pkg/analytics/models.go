package analytics

import (
	"time"
)

// MediaKind classifies a post's content
type MediaKind string

const (
	MediaKindImage    MediaKind = "image"
	MediaKindVideo    MediaKind = "video"
	MediaKindCarousel MediaKind = "carousel"
)

// Profile is the canonical identity and audience-size snapshot of one account
type Profile struct {
	ID               string `json:"id"`
	Handle           string `json:"handle"`
	DisplayName      string `json:"displayName"`
	Bio              string `json:"bio"`
	AvatarURL        string `json:"avatarUrl"`
	FollowersCount   int    `json:"followersCount"`
	FollowingCount   int    `json:"followingCount"`
	PostsCount       int    `json:"postsCount"`
	Verified         bool   `json:"verified"`
	IsBusiness       bool   `json:"isBusiness"`
	ExternalLink     string `json:"externalLink,omitempty"`
	BusinessCategory string `json:"businessCategory,omitempty"`
}

// Post is one canonical published item by a Profile
type Post struct {
	ID            string    `json:"id"`
	ShortCode     string    `json:"shortCode"`
	URL           string    `json:"url"`
	MediaKind     MediaKind `json:"mediaKind"`
	Caption       string    `json:"caption,omitempty"`
	PostedAt      time.Time `json:"postedAt"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	ViewCount     *int      `json:"viewCount,omitempty"`
	DisplayURL    string    `json:"displayUrl"`
	Hashtags      []string  `json:"hashtags"`
	Mentions      []string  `json:"mentions"`
	Sponsored     bool      `json:"sponsored"`
	LocationName  string    `json:"locationName,omitempty"`
}

// Engagement is likes plus comments, the base unit for all rate metrics
func (p *Post) Engagement() int {
	return p.LikesCount + p.CommentsCount
}

// TagCount is one entry in a frequency ranking
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TrendPoint is total engagement on one calendar date
type TrendPoint struct {
	Date       string `json:"date"`
	Engagement int    `json:"engagement"`
}

// MediaMix is the percentage split of a post window by content kind
type MediaMix struct {
	Image    float64 `json:"image"`
	Video    float64 `json:"video"`
	Carousel float64 `json:"carousel"`
}

// EngagementByType is the mean engagement per content kind
type EngagementByType struct {
	Image    float64 `json:"image"`
	Video    float64 `json:"video"`
	Carousel float64 `json:"carousel"`
}

// DayStats is aggregate performance for one weekday present in the window
type DayStats struct {
	Day           string  `json:"day"`
	AvgEngagement float64 `json:"avgEngagement"`
	PostCount     int     `json:"postCount"`
}

// HourStats is aggregate performance for one hour of day present in the window
type HourStats struct {
	Hour          int     `json:"hour"`
	AvgEngagement float64 `json:"avgEngagement"`
	PostCount     int     `json:"postCount"`
}

// Stats is the derived metrics block of an analytics report. Every field is
// a pure function of the (Profile, Post window) inputs; insufficient data
// degrades to zero/empty/"Unknown" values, never to an error.
type Stats struct {
	AvgLikesPerPost     int              `json:"avgLikesPerPost"`
	AvgCommentsPerPost  int              `json:"avgCommentsPerPost"`
	AvgEngagementRate   float64          `json:"avgEngagementRate"`
	TotalEngagement     int              `json:"totalEngagement"`
	TotalViews          int              `json:"totalViews"`
	TopHashtags         []TagCount       `json:"topHashtags"`
	TopMentions         []TagCount       `json:"topMentions"`
	EngagementTrend     []TrendPoint     `json:"engagementTrend"`
	PostingFrequency    string           `json:"postingFrequency"`
	MediaMix            MediaMix         `json:"mediaMix"`
	AvgEngagementByType EngagementByType `json:"avgEngagementByType"`
	DayOfWeekAnalysis   []DayStats       `json:"dayOfWeekAnalysis"`
	HourAnalysis        []HourStats      `json:"hourAnalysis"`
}

// Analytics is the aggregate report for one Profile over its post window
type Analytics struct {
	ID          string    `json:"id"`
	Profile     Profile   `json:"profile"`
	Posts       []Post    `json:"posts"`
	Stats       Stats     `json:"stats"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// AccountSnapshot is the per-owner persisted map from handle to the last
// Analytics computed for it
type AccountSnapshot struct {
	Owner     string                `json:"owner" bson:"_id"`
	Accounts  map[string]*Analytics `json:"accounts" bson:"accounts"`
	UpdatedAt time.Time             `json:"updatedAt" bson:"updated_at"`
}
