package sources

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// route matches one link shape: a set of hosts (subdomains included) and a
// pattern over "path?query" whose first group is the platform-native id.
type route struct {
	platform engine.Platform
	hosts    []string
	re       *regexp.Regexp
}

var youtubeHosts = []string{"youtube.com"}

// YouTube forms are listed first: their 11-char id is the strictest pattern.
var youtubeRoutes = []route{
	{engine.PlatformYouTube, youtubeHosts, regexp.MustCompile(`^/watch\?(?:[^#]*&)?v=([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)},
	{engine.PlatformYouTube, []string{"youtu.be"}, regexp.MustCompile(`^/([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)},
	{engine.PlatformYouTube, youtubeHosts, regexp.MustCompile(`^/shorts/([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)},
	{engine.PlatformYouTube, []string{"youtube.com", "youtube-nocookie.com"}, regexp.MustCompile(`^/embed/([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)},
	{engine.PlatformYouTube, youtubeHosts, regexp.MustCompile(`^/live/([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)},
}

var otherRoutes = []route{
	{engine.PlatformInstagram, []string{"instagram.com"}, regexp.MustCompile(`^/(?:[A-Za-z0-9_.]+/)?(?:p|reel|reels|tv)/([A-Za-z0-9_-]+)`)},
	{engine.PlatformTikTok, []string{"tiktok.com"}, regexp.MustCompile(`^/@[^/]+/video/(\d+)`)},
	{engine.PlatformTikTok, []string{"vm.tiktok.com", "vt.tiktok.com"}, regexp.MustCompile(`^/([A-Za-z0-9]+)`)},
	{engine.PlatformReddit, []string{"reddit.com"}, regexp.MustCompile(`^/(?:r/[^/]+/)?comments/([a-z0-9]+)`)},
	{engine.PlatformReddit, []string{"redd.it"}, regexp.MustCompile(`^/([a-z0-9]+)`)},
}

// splitLink parses s into a lowercase host and "path?query". A missing scheme is
// read as https; anything but http(s) or a link without a host is rejected.
func splitLink(s string) (host, target string, ok bool) {
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", "", false
	}
	host = strings.ToLower(u.Hostname())
	if host == "" {
		return "", "", false
	}
	target = u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return host, target, true
}

func hostMatches(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func matchRoutes(routes []route, host, target string) (engine.Platform, string) {
	for _, r := range routes {
		if !hostMatches(host, r.hosts) {
			continue
		}
		if m := r.re.FindStringSubmatch(target); len(m) >= 2 {
			return r.platform, m[1]
		}
	}
	return "", ""
}

// ExtractYouTubeID pulls the 11-char video id from watch, youtu.be, shorts,
// embed and live URLs. Returns "" for anything else.
func ExtractYouTubeID(rawURL string) string {
	host, target, ok := splitLink(strings.TrimSpace(rawURL))
	if !ok {
		return ""
	}
	_, id := matchRoutes(youtubeRoutes, host, target)
	return id
}

// ParseSource detects the platform of a shared link and extracts its native id.
// Unrecognized shapes fail closed with engine.ErrUnsupportedURL.
func ParseSource(rawURL string) (engine.SourceReference, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return engine.SourceReference{}, fmt.Errorf("empty url: %w", engine.ErrUnsupportedURL)
	}
	host, target, ok := splitLink(s)
	if !ok {
		return engine.SourceReference{}, fmt.Errorf("%q: %w", s, engine.ErrUnsupportedURL)
	}
	for _, routes := range [][]route{youtubeRoutes, otherRoutes} {
		if platform, id := matchRoutes(routes, host, target); id != "" {
			return engine.SourceReference{Platform: platform, URL: s, ID: id}, nil
		}
	}
	return engine.SourceReference{}, fmt.Errorf("%q: %w", s, engine.ErrUnsupportedURL)
}
