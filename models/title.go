package models

import "fmt"

type Title struct {
	ID    string // eab id
	Title string
	Year  int

	Season      int
	Episode     int
	EpisodeName string
}

func (t *Title) IsEpisode() bool {
	return t.Season > 0
}

func (t *Title) String() string {
	if t.IsEpisode() {
		return fmt.Sprintf("%s S%02dE%02d %s", t.Title, t.Season, t.Episode, t.EpisodeName)
	}
	if t.Year > 0 {
		return fmt.Sprintf("%s (%d)", t.Title, t.Year)
	}
	return t.Title
}
