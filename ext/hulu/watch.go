package hulu

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	watchIDPattern  = regexp.MustCompile(`[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}`)
	watchURLPattern = regexp.MustCompile(`^https?://(?:www\.)?hulu\.com/(?:watch|movie|series)`)
)

// ParseWatchID accepts a bare watch id or a hulu.com watch, movie or
// series URL containing one.
func ParseWatchID(input string) (string, error) {
	input = strings.TrimSpace(input)
	candidate := ""
	switch {
	case len(input) == 36 && watchIDPattern.MatchString(input):
		candidate = input
	case watchURLPattern.MatchString(input):
		candidate = watchIDPattern.FindString(input)
	}
	if candidate == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidWatchID, input)
	}
	id, err := uuid.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidWatchID, err)
	}
	return id.String(), nil
}

func IsSeriesURL(input string) bool {
	return strings.Contains(input, "/series/")
}
