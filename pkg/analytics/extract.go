package analytics

import "regexp"

// Token charsets follow what captions actually contain: hashtags accept any
// Unicode letter or digit plus underscore, mentions only the ASCII word
// charset. Both stop at the first character outside the charset.
var (
	hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// ExtractHashtags returns the hashtags in a caption, without the leading #,
// in order of first appearance. Duplicates are retained; counting happens
// downstream in the aggregator.
func ExtractHashtags(caption string) []string {
	return extract(hashtagPattern, caption)
}

// ExtractMentions returns the mentions in a caption, without the leading @,
// in order of appearance, duplicates retained.
func ExtractMentions(caption string) []string {
	return extract(mentionPattern, caption)
}

func extract(pattern *regexp.Regexp, caption string) []string {
	if caption == "" {
		return []string{}
	}

	matches := pattern.FindAllStringSubmatch(caption, -1)
	tokens := make([]string, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, m[1])
	}
	return tokens
}
