// Package youtube extracts video IDs from user-supplied URLs and downloads
// caption tracks from the public timedtext endpoint.
package youtube

import (
	"fmt"
	"net/url"
	"strings"
)

// videoIDLen is the fixed length of a YouTube video identifier.
const videoIDLen = 11

// ExtractVideoID parses a YouTube URL in any of the common shapes and returns
// the 11-character video ID:
//
//	https://www.youtube.com/watch?v=VIDEOID
//	https://youtu.be/VIDEOID
//	https://www.youtube.com/embed/VIDEOID
//	https://www.youtube.com/shorts/VIDEOID
//
// A bare 11-character ID is accepted as-is.
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("youtube: empty video URL")
	}

	if isVideoID(input) {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("youtube: parse URL %q: %w", input, err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if isVideoID(id) {
			return id, nil
		}
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		if id := u.Query().Get("v"); isVideoID(id) {
			return id, nil
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id := strings.SplitN(rest, "/", 2)[0]
				if isVideoID(id) {
					return id, nil
				}
			}
		}
	}

	return "", fmt.Errorf("youtube: no video ID in %q", input)
}

// isVideoID reports whether s looks like a YouTube video ID: exactly 11
// characters from the URL-safe base64 alphabet.
func isVideoID(s string) bool {
	if len(s) != videoIDLen {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
