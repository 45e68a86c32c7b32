package instagram

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one profile record as returned by the scraping provider.
// Field presence is unreliable: the provider omits, empties or renames
// fields between runs, so every field here is optional and the normalizer
// owns the fallback chains.
type RawRecord struct {
	ID                   string    `json:"id"`
	Username             string    `json:"username"`
	FullName             string    `json:"fullName"`
	Biography            string    `json:"biography"`
	ProfilePicURLHD      string    `json:"profilePicUrlHD"`
	ProfilePicURL        string    `json:"profilePicUrl"`
	FollowersCount       int       `json:"followersCount"`
	FollowsCount         int       `json:"followsCount"`
	PostsCount           int       `json:"postsCount"`
	Verified             bool      `json:"verified"`
	IsBusinessAccount    bool      `json:"isBusinessAccount"`
	ExternalURL          string    `json:"externalUrl"`
	BusinessCategoryName string    `json:"businessCategoryName"`
	LatestPosts          []RawPost `json:"latestPosts"`
}

// RawPost is one post record as returned by the scraping provider
type RawPost struct {
	ID             string   `json:"id"`
	ShortCode      string   `json:"shortCode"`
	URL            string   `json:"url"`
	Type           string   `json:"type"`
	Caption        string   `json:"caption"`
	Timestamp      FlexTime `json:"timestamp"`
	LikesCount     int      `json:"likesCount"`
	CommentsCount  int      `json:"commentsCount"`
	VideoViewCount *int     `json:"videoViewCount,omitempty"`
	DisplayURL     string   `json:"displayUrl"`
	VideoURL       string   `json:"videoUrl"`
	Hashtags       []string `json:"hashtags"`
	Mentions       []string `json:"mentions"`
	IsSponsored    bool     `json:"isSponsored"`
	LocationName   string   `json:"locationName"`
}

// FlexTime accepts the two timestamp encodings the provider emits: an
// ISO-8601 string or Unix seconds as a JSON number.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		ft.Time = time.Time{}
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			// Providers occasionally drop the timezone suffix
			parsed, err = time.Parse("2006-01-02T15:04:05", str)
			if err != nil {
				return err
			}
			parsed = parsed.UTC()
		}
		ft.Time = parsed
		return nil
	}

	seconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	ft.Time = time.Unix(seconds, 0).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler; output is always RFC3339
func (ft FlexTime) MarshalJSON() ([]byte, error) {
	if ft.Time.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(ft.Time.UTC().Format(time.RFC3339))
}
