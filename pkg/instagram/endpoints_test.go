package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "instalytics/pkg/errors"
)

func TestResolveAccountRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{
			name: "bare handle",
			ref:  "someuser",
			want: "someuser",
		},
		{
			name: "at-prefixed handle",
			ref:  "@some.user_99",
			want: "some.user_99",
		},
		{
			name: "profile URL",
			ref:  "https://www.instagram.com/someuser/",
			want: "someuser",
		},
		{
			name: "profile URL without scheme",
			ref:  "instagram.com/someuser",
			want: "someuser",
		},
		{
			name: "profile URL with query string",
			ref:  "https://instagram.com/someuser/?igshid=abc",
			want: "someuser",
		},
		{
			name:    "post URL rejects reserved segment",
			ref:     "https://www.instagram.com/p/abc123/",
			wantErr: true,
		},
		{
			name:    "reel URL rejects reserved segment",
			ref:     "https://www.instagram.com/reel/xyz/",
			wantErr: true,
		},
		{
			name:    "explore URL rejects reserved segment",
			ref:     "https://www.instagram.com/explore/",
			wantErr: true,
		},
		{
			name:    "stories URL rejects reserved segment",
			ref:     "instagram.com/stories/",
			wantErr: true,
		},
		{
			name:    "empty input",
			ref:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			ref:     "   ",
			wantErr: true,
		},
		{
			name:    "handle with illegal characters",
			ref:     "some user!",
			wantErr: true,
		},
		{
			name:    "foreign URL",
			ref:     "https://example.com/someuser/",
			wantErr: true,
		},
		{
			name:    "overlong handle",
			ref:     "a_very_long_handle_that_exceeds_thirty_chars",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAccountRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errs.IsResolution(err), "expected a resolution error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePostRef(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{
			name: "post URL",
			ref:  "https://www.instagram.com/p/Cxyz_123/",
			want: "Cxyz_123",
		},
		{
			name: "reel URL",
			ref:  "https://instagram.com/reel/AbC-9/",
			want: "AbC-9",
		},
		{
			name: "tv URL",
			ref:  "instagram.com/tv/QQQ/",
			want: "QQQ",
		},
		{
			name:    "profile URL is not a post",
			ref:     "https://www.instagram.com/someuser/",
			wantErr: true,
		},
		{
			name:    "bare handle is not a post",
			ref:     "someuser",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePostRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidHandle(t *testing.T) {
	tests := []struct {
		handle string
		valid  bool
	}{
		{"someuser", true},
		{"some.user", true},
		{"some_user_99", true},
		{"", false},
		{"user name", false},
		{"user!", false},
		{"ユーザー", false},
		{"a_very_long_handle_that_exceeds_thirty_chars", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidHandle(tt.handle), "handle %q", tt.handle)
	}
}

func TestURLConstruction(t *testing.T) {
	assert.Equal(t, BaseURL+ProfileEndpoint+"?username=someuser", GetProfileURL("someuser"))
	assert.Equal(t, BaseURL+PostEndpoint+"?shortcode=abc", GetPostInfoURL("abc"))
	assert.Equal(t, BaseURL+"/p/abc/", GetPostURL("abc"))
	assert.Equal(t, "", GetPostURL(""))
	assert.Equal(t, BaseURL+"/someuser/", GetProfilePageURL("someuser"))
	assert.Equal(t, "", GetProfilePageURL(""))
}
