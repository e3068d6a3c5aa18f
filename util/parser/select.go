package parser

import (
	"fmt"

	"huludl/models"
	"huludl/util"
)

var (
	ErrQualityUnavailable   = &util.Error{Message: "quality not available"}
	ErrAudioLangUnavailable = &util.Error{Message: "audio language not available"}
)

// SelectVideo keeps the tracks whose height is one of heights, in the
// order heights lists them. No heights keeps every track.
func SelectVideo(tracks []*models.Track, heights []int) ([]*models.Track, error) {
	if len(heights) == 0 {
		return tracks, nil
	}
	selected := make([]*models.Track, 0, len(heights))
	for _, height := range heights {
		var found *models.Track
		for _, track := range tracks {
			if track.Height == uint64(height) {
				found = track
				break
			}
		}
		if found == nil {
			return nil, fmt.Errorf("%w: %dp", ErrQualityUnavailable, height)
		}
		selected = append(selected, found)
	}
	return selected, nil
}

// SelectAudio keeps the tracks of main adaptation sets (no role or role
// "main"), restricted to lang when it is set.
func SelectAudio(tracks []*models.Track, lang string) ([]*models.Track, error) {
	var selected []*models.Track
	for _, track := range tracks {
		if track.Role != "" && track.Role != mainRole {
			continue
		}
		if lang != "" && track.Lang != lang {
			continue
		}
		selected = append(selected, track)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrAudioLangUnavailable, lang)
	}
	return selected, nil
}
