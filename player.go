package plopper

import "regexp"

// Playable media detection. The patterns mirror the provider and file
// matchers of the player widget on the client side, so a URL classified
// as a player here is one the board can actually embed.
var playerPatterns = []*regexp.Regexp{
	// providers
	regexp.MustCompile(`(?i)^https?://(www\.)?(youtube\.com|youtu\.be)/`),
	regexp.MustCompile(`(?i)^https?://(www\.|player\.)?vimeo\.com/`),
	regexp.MustCompile(`(?i)^https?://(www\.)?(soundcloud\.com|snd\.sc)/`),
	regexp.MustCompile(`(?i)^https?://(www\.|go\.)?twitch\.tv/`),
	regexp.MustCompile(`(?i)^https?://(www\.)?dailymotion\.com/video/`),
	regexp.MustCompile(`(?i)^https?://(www\.)?mixcloud\.com/`),
	regexp.MustCompile(`(?i)^https?://(www\.)?streamable\.com/`),
	regexp.MustCompile(`(?i)^https?://(.+\.)?wistia\.(com|net)/(medias|embed)/`),
	regexp.MustCompile(`(?i)^https?://(www\.)?facebook\.com/.+/videos/`),
	// direct media files
	regexp.MustCompile(`(?i)\.(mp4|webm|ogv|mov|m4v)($|\?)`),
	regexp.MustCompile(`(?i)\.(mp3|wav|flac|aac|oga)($|\?)`),
	regexp.MustCompile(`(?i)\.(m3u8|mpd)($|\?)`),
}

// CanPlay reports whether the URL points at playable media.
func CanPlay(url string) bool {
	for _, p := range playerPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}
