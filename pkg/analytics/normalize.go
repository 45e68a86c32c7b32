package analytics

import (
	"sort"
	"strings"

	"instalytics/pkg/config"
	"instalytics/pkg/instagram"
)

// Normalizer maps raw provider records into the canonical Profile/Post
// shapes. Missing optional fields are silently defaulted, never rejected:
// the provider is an unreliable upstream and tightening validation here
// would change observable behavior.
type Normalizer struct {
	windowSize int
}

// NewNormalizer creates a Normalizer with the configured window size
func NewNormalizer(cfg *config.AnalyticsConfig) *Normalizer {
	windowSize := cfg.WindowSize
	if windowSize <= 0 {
		windowSize = config.DefaultConfig().Analytics.WindowSize
	}
	return &Normalizer{windowSize: windowSize}
}

// Normalize converts a raw record into a canonical Profile and its bounded
// post window. The window is ordered most-recent-first and truncated after
// ordering, so a provider that returns posts out of order still yields the
// newest posts.
func (n *Normalizer) Normalize(record *instagram.RawRecord, fallbackHandle string) (Profile, []Post) {
	profile := n.normalizeProfile(record, fallbackHandle)

	posts := make([]Post, 0, len(record.LatestPosts))
	for _, raw := range record.LatestPosts {
		posts = append(posts, normalizePost(raw))
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PostedAt.After(posts[j].PostedAt)
	})

	if len(posts) > n.windowSize {
		posts = posts[:n.windowSize]
	}

	return profile, posts
}

// normalizeProfile applies the profile field fallback chains
func (n *Normalizer) normalizeProfile(record *instagram.RawRecord, fallbackHandle string) Profile {
	handle := record.Username
	if handle == "" {
		handle = fallbackHandle
	}

	displayName := record.FullName
	if displayName == "" {
		displayName = handle
	}

	// Prefer the full-resolution avatar, fall back to the standard one
	avatarURL := record.ProfilePicURLHD
	if avatarURL == "" {
		avatarURL = record.ProfilePicURL
	}

	return Profile{
		ID:               record.ID,
		Handle:           handle,
		DisplayName:      displayName,
		Bio:              record.Biography,
		AvatarURL:        avatarURL,
		FollowersCount:   clampNonNegative(record.FollowersCount),
		FollowingCount:   clampNonNegative(record.FollowsCount),
		PostsCount:       clampNonNegative(record.PostsCount),
		Verified:         record.Verified,
		IsBusiness:       record.IsBusinessAccount,
		ExternalLink:     record.ExternalURL,
		BusinessCategory: record.BusinessCategoryName,
	}
}

// normalizePost applies the post field fallback chains
func normalizePost(raw instagram.RawPost) Post {
	mediaKind := mapMediaKind(raw.Type)

	url := raw.URL
	if url == "" {
		url = instagram.GetPostURL(raw.ShortCode)
	}

	// Prefer provider-supplied entity lists; derive from the caption
	// only when the provider sent nothing
	hashtags := raw.Hashtags
	if len(hashtags) == 0 {
		hashtags = ExtractHashtags(raw.Caption)
	}
	mentions := raw.Mentions
	if len(mentions) == 0 {
		mentions = ExtractMentions(raw.Caption)
	}

	var viewCount *int
	if raw.VideoViewCount != nil && mediaKind == MediaKindVideo {
		v := clampNonNegative(*raw.VideoViewCount)
		viewCount = &v
	}

	return Post{
		ID:            raw.ID,
		ShortCode:     raw.ShortCode,
		URL:           url,
		MediaKind:     mediaKind,
		Caption:       raw.Caption,
		PostedAt:      raw.Timestamp.Time.UTC(),
		LikesCount:    clampNonNegative(raw.LikesCount),
		CommentsCount: clampNonNegative(raw.CommentsCount),
		ViewCount:     viewCount,
		DisplayURL:    raw.DisplayURL,
		Hashtags:      hashtags,
		Mentions:      mentions,
		Sponsored:     raw.IsSponsored,
		LocationName:  raw.LocationName,
	}
}

// mapMediaKind maps the provider's type tags to the three canonical kinds.
// Unrecognized tags default to image.
func mapMediaKind(rawType string) MediaKind {
	switch strings.ToLower(rawType) {
	case "graphvideo", "video", "clip":
		return MediaKindVideo
	case "graphsidecar", "sidecar", "carousel":
		return MediaKindCarousel
	case "graphimage", "image", "photo":
		return MediaKindImage
	default:
		return MediaKindImage
	}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
