package sources

import (
	"errors"
	"testing"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

func TestExtractYouTubeID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"watch extra params", "https://www.youtube.com/watch?feature=share&v=VcuM9JvZrp4&t=42", "VcuM9JvZrp4"},
		{"mobile watch", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"short link with query", "https://youtu.be/VcuM9JvZrp4?si=abc123", "VcuM9JvZrp4"},
		{"shorts", "https://www.youtube.com/shorts/a-b_c1234XY", "a-b_c1234XY"},
		{"embed", "https://www.youtube.com/embed/VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"embed nocookie", "https://www.youtube-nocookie.com/embed/VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"live", "https://www.youtube.com/live/VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"no scheme", "youtube.com/watch?v=VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"id too short", "https://youtu.be/VcuM9Jv", ""},
		{"id too long", "https://www.youtube.com/watch?v=VcuM9JvZrp4x", ""},
		{"channel page", "https://www.youtube.com/@travelchannel", ""},
		{"other host", "https://vimeo.com/123456789", ""},
		{"lookalike host", "https://notyoutube.com/watch?v=VcuM9JvZrp4", ""},
		{"host in path", "https://evil.example/youtube.com/watch?v=VcuM9JvZrp4", ""},
		{"host in userinfo", "https://youtube.com@evil.example/watch?v=VcuM9JvZrp4", ""},
		{"host in query", "https://evil.example/?next=youtu.be/VcuM9JvZrp4", ""},
		{"uppercase host with port", "https://WWW.YouTube.com:443/watch?v=VcuM9JvZrp4", "VcuM9JvZrp4"},
		{"non-http scheme", "ftp://youtube.com/watch?v=VcuM9JvZrp4", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYouTubeID(tt.url); got != tt.want {
				t.Errorf("ExtractYouTubeID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform engine.Platform
		id       string
	}{
		{"youtube", " https://youtu.be/VcuM9JvZrp4 ", engine.PlatformYouTube, "VcuM9JvZrp4"},
		{"instagram post", "https://www.instagram.com/p/C1a2B3c4D5e/", engine.PlatformInstagram, "C1a2B3c4D5e"},
		{"instagram reel", "https://www.instagram.com/reel/C9xYz_12AbC/?igsh=xyz", engine.PlatformInstagram, "C9xYz_12AbC"},
		{"instagram user reel", "https://instagram.com/tokyofoodie/reel/C9xYz_12AbC", engine.PlatformInstagram, "C9xYz_12AbC"},
		{"tiktok video", "https://www.tiktok.com/@tokyo.eats/video/7312345678901234567", engine.PlatformTikTok, "7312345678901234567"},
		{"tiktok short", "https://vm.tiktok.com/ZMabc123/", engine.PlatformTikTok, "ZMabc123"},
		{"reddit post", "https://www.reddit.com/r/JapanTravel/comments/1abcde2/two_weeks_in_tokyo/", engine.PlatformReddit, "1abcde2"},
		{"reddit short", "https://redd.it/1abcde2", engine.PlatformReddit, "1abcde2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseSource(tt.url)
			if err != nil {
				t.Fatalf("ParseSource(%q) error: %v", tt.url, err)
			}
			if ref.Platform != tt.platform || ref.ID != tt.id {
				t.Errorf("ParseSource(%q) = %s/%s, want %s/%s", tt.url, ref.Platform, ref.ID, tt.platform, tt.id)
			}
		})
	}
}

func TestParseSource_Unsupported(t *testing.T) {
	for _, u := range []string{
		"",
		"   ",
		"not a url",
		"https://example.com/watch?v=VcuM9JvZrp4x",
		"https://www.instagram.com/tokyofoodie/",
		"https://www.reddit.com/r/JapanTravel/",
		"https://www.tiktok.com/@tokyo.eats",
		"https://evil.example/www.instagram.com/p/C1a2B3c4D5e/",
		"https://evil.example/redd.it/1abcde2",
		"https://notreddit.com/comments/1abcde2",
	} {
		if _, err := ParseSource(u); !errors.Is(err, engine.ErrUnsupportedURL) {
			t.Errorf("ParseSource(%q) error = %v, want ErrUnsupportedURL", u, err)
		}
	}
}
