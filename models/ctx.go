package models

import "context"

// PlaybackContext carries one title through the playlist pipeline.
type PlaybackContext struct {
	Context context.Context
	Title   *Title
	Options *PlaybackOptions
}

type PlaybackOptions struct {
	Device        string
	HEVC          bool
	HDR           bool
	Force2ch      bool
	SubtitleLangs []string
	Info          bool

	// video heights to keep, empty keeps all
	Qualities []int
	AudioLang string
}
