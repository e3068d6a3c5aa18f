package models

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Playlist is a playlist response as returned by the service. Data is the
// decoded document, Raw the JSON it was decoded from.
type Playlist struct {
	Data map[string]any
	Raw  []byte
}

func NewPlaylist(data map[string]any, raw []byte) *Playlist {
	return &Playlist{
		Data: data,
		Raw:  raw,
	}
}

func (p *Playlist) Get(path string) gjson.Result {
	return gjson.GetBytes(p.Raw, path)
}

// manifest url
func (p *Playlist) StreamURL() string {
	return p.Get("stream_url").String()
}

// widevine license endpoint
func (p *Playlist) LicenseURL() string {
	return p.Get("wv_server").String()
}

func (p *Playlist) TranscriptURL(format string, lang string) (string, bool) {
	result := p.Get("transcripts_urls." + format + "." + escapePath(lang))
	if !result.Exists() {
		return "", false
	}
	return result.String(), true
}

// Blocked reports the service's block reason, if any.
func (p *Playlist) Blocked() (string, bool) {
	result := p.Get("block")
	if !result.Exists() {
		return "", false
	}
	return result.Raw, true
}

func escapePath(component string) string {
	replacer := strings.NewReplacer(
		".", `\.`,
		"*", `\*`,
		"?", `\?`,
	)
	return replacer.Replace(component)
}
