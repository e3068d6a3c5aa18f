package hulu

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"huludl/models"
	"huludl/util/networking"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const DefaultDiscoverURL = "https://discover.hulu.com"

// Discover resolves watch ids to content (eab) ids through the catalog API.
type Discover struct {
	client  models.HTTPClient
	baseURL string
}

func NewDiscover(client models.HTTPClient, baseURL string) *Discover {
	if client == nil {
		client = networking.GetDefaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = DefaultDiscoverURL
	}
	return &Discover{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (d *Discover) GetTitle(ctx context.Context, watchID string) (*models.Title, error) {
	query := url.Values{
		"schema":        []string{"12"},
		"entity_id":     []string{watchID},
		"referral_host": []string{"www.hulu.com"},
	}
	body, err := d.get(ctx, "/content/v3/entity/deeplink", query)
	if err != nil {
		return nil, err
	}
	entity := gjson.GetBytes(body, "entity")
	if !entity.Get("bundle").Exists() {
		return nil, ErrContentUnavailable
	}
	title := &models.Title{
		ID:    entity.Get("bundle.eab_id").String(),
		Title: entity.Get("name").String(),
	}
	premiere := entity.Get("premiere_date").String()
	if year, _, ok := strings.Cut(premiere, "-"); ok {
		title.Year, _ = strconv.Atoi(year)
	}
	return title, nil
}

func (d *Discover) GetEpisodes(ctx context.Context, seriesID string, season int) ([]*models.Title, error) {
	query := url.Values{
		"limit":  []string{"999"},
		"schema": []string{"9"},
	}
	path := fmt.Sprintf("/content/v4/hubs/series/%s/season/%d", url.PathEscape(seriesID), season)
	body, err := d.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var episodes []*models.Title
	for _, item := range gjson.GetBytes(body, "items").Array() {
		if !item.Get("bundle").Exists() {
			return nil, ErrContentUnavailable
		}
		episodes = append(episodes, &models.Title{
			ID:          item.Get("bundle.eab_id").String(),
			Title:       item.Get("series_name").String(),
			Season:      int(item.Get("season").Int()),
			Episode:     int(item.Get("number").Int()),
			EpisodeName: item.Get("name").String(),
		})
	}
	if len(episodes) == 0 {
		return nil, ErrNoEpisodes
	}
	slices.SortStableFunc(episodes, func(a, b *models.Title) int {
		return a.Episode - b.Episode
	})
	return episodes, nil
}

func (d *Discover) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := d.baseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
	zap.S().Debugf("discover response: %s", body)
	return body, nil
}
