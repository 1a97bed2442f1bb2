package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hoshizora/bancho-gateway/internal/models"
)

// ScoresClient talks to the scores service.
type ScoresClient struct {
	client *client
}

// ScoreFilters narrows GetScores. Zero values are not sent.
type ScoreFilters struct {
	BeatmapMD5 string
	AccountID  int
	Mode       string
	Passed     bool
	PageSize   int
}

// GetScores lists scores matching the filters, best first.
func (c *ScoresClient) GetScores(ctx context.Context, filters ScoreFilters) ([]models.Score, error) {
	query := url.Values{}
	if filters.BeatmapMD5 != "" {
		query.Set("beatmap_md5", filters.BeatmapMD5)
	}
	if filters.AccountID != 0 {
		query.Set("account_id", strconv.Itoa(filters.AccountID))
	}
	if filters.Mode != "" {
		query.Set("mode", filters.Mode)
	}
	if filters.Passed {
		query.Set("passed", "true")
	}
	if filters.PageSize != 0 {
		query.Set("page_size", strconv.Itoa(filters.PageSize))
	}
	var scores []models.Score
	if err := c.client.call(ctx, http.MethodGet, "/v1/scores", query, nil, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
