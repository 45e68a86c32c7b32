package instagram

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	errs "instalytics/pkg/errors"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ProfileEndpoint is the endpoint pattern for profile scrapes
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// PostEndpoint is the endpoint pattern for single-post scrapes
	PostEndpoint = "/api/v1/media/info/"

	// MaxHandleLength is the longest handle Instagram allows
	MaxHandleLength = 30
)

// reservedSegments are instagram.com path segments that are not profile
// handles even though they match the URL shape. A URL whose first segment
// is one of these resolves to nothing, never to the segment itself.
var reservedSegments = map[string]bool{
	"p":         true,
	"reel":      true,
	"reels":     true,
	"tv":        true,
	"stories":   true,
	"explore":   true,
	"accounts":  true,
	"about":     true,
	"developer": true,
	"directory": true,
	"legal":     true,
}

var (
	profileURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/([A-Za-z0-9._]+)/?(?:\?.*)?$`)
	handlePattern     = regexp.MustCompile(`^@?([A-Za-z0-9._]+)$`)
	postURLPattern    = regexp.MustCompile(`^(?:https?://)?(?:www\.)?instagram\.com/(?:p|reel|tv)/([A-Za-z0-9_-]+)/?(?:\?.*)?$`)
)

// ResolveAccountRef extracts the canonical handle from an account reference:
// a bare handle, an @handle, or an instagram.com profile URL. Patterns are
// tried in order and the first match wins; no match is a resolution error,
// never a guess.
func ResolveAccountRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errs.NewResolutionError(ref)
	}

	if m := profileURLPattern.FindStringSubmatch(ref); m != nil {
		handle := m[1]
		if reservedSegments[strings.ToLower(handle)] {
			return "", errs.NewResolutionError(ref)
		}
		if !IsValidHandle(handle) {
			return "", errs.NewResolutionError(ref)
		}
		return handle, nil
	}

	// URLs that fail the profile pattern must not fall through to the
	// bare-handle pattern
	if strings.Contains(ref, "/") {
		return "", errs.NewResolutionError(ref)
	}

	if m := handlePattern.FindStringSubmatch(ref); m != nil {
		handle := m[1]
		if !IsValidHandle(handle) {
			return "", errs.NewResolutionError(ref)
		}
		return handle, nil
	}

	return "", errs.NewResolutionError(ref)
}

// ResolvePostRef extracts the shortcode from a post, reel or tv URL
func ResolvePostRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if m := postURLPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	return "", errs.NewResolutionError(ref)
}

// IsValidHandle checks if a handle is valid according to Instagram rules
func IsValidHandle(handle string) bool {
	if handle == "" || len(handle) > MaxHandleLength {
		return false
	}

	for _, char := range handle {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

// GetProfileURL constructs the URL for fetching a profile's records
func GetProfileURL(handle string) string {
	params := url.Values{}
	params.Set("username", handle)

	return fmt.Sprintf("%s%s?%s", BaseURL, ProfileEndpoint, params.Encode())
}

// GetPostInfoURL constructs the URL for fetching a single post's record
func GetPostInfoURL(shortcode string) string {
	params := url.Values{}
	params.Set("shortcode", shortcode)

	return fmt.Sprintf("%s%s?%s", BaseURL, PostEndpoint, params.Encode())
}

// GetPostURL constructs the public URL for a post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// GetProfilePageURL constructs the public profile URL for a handle
func GetProfilePageURL(handle string) string {
	if handle == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/", BaseURL, handle)
}
