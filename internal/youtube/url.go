package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

// videoIDPattern matches a canonical 11-character YouTube video ID.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// allowedHosts is the fixed set of hosts a video URL may use. An
// ID-shaped substring on any other host is rejected.
var allowedHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
// Recognized shapes: watch?v=<id>, youtu.be/<id>, /embed/<id> and
// /v/<id>. Malformed input is a normal case and returns ok=false,
// never a panic.
func ExtractVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !allowedHosts[strings.ToLower(u.Hostname())] {
		return "", false
	}

	var id string
	switch {
	case u.Hostname() == "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
		if i := strings.Index(id, "/"); i >= 0 {
			id = id[:i]
		}
	case u.Path == "/watch":
		id = u.Query().Get("v")
	case strings.HasPrefix(u.Path, "/embed/"):
		id = strings.TrimPrefix(u.Path, "/embed/")
	case strings.HasPrefix(u.Path, "/v/"):
		id = strings.TrimPrefix(u.Path, "/v/")
	default:
		return "", false
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// IsValidURL reports whether raw is a YouTube URL we can extract a
// video ID from.
func IsValidURL(raw string) bool {
	_, ok := ExtractVideoID(raw)
	return ok
}
