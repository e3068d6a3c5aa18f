package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"huludl/enums"
	"huludl/models"
	"huludl/util/networking"
)

// fetches a manifest body with the given client
func fetchContent(ctx context.Context, client models.HTTPClient, url string) ([]byte, error) {
	if client == nil {
		client = networking.GetDefaultHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func getMediaType(mimeType string, contentType *string) enums.MediaType {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return enums.MediaTypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return enums.MediaTypeAudio
	case strings.HasPrefix(mimeType, "text/"), strings.Contains(mimeType, "ttml"):
		return enums.MediaTypeText
	case contentType != nil:
		return enums.MediaType(strings.ToLower(*contentType))
	}
	return ""
}
