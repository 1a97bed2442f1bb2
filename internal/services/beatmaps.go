package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hoshizora/bancho-gateway/internal/models"
)

// BeatmapsClient talks to the beatmaps service.
type BeatmapsClient struct {
	client *client
}

// BeatmapFilters narrows GetBeatmaps. Zero values are not sent.
type BeatmapFilters struct {
	SetID    int
	MD5Hash  string
	Mode     string
	PageSize int
}

// GetBeatmaps lists beatmaps matching the filters.
func (c *BeatmapsClient) GetBeatmaps(ctx context.Context, filters BeatmapFilters) ([]models.Beatmap, error) {
	query := url.Values{}
	if filters.SetID != 0 {
		query.Set("set_id", strconv.Itoa(filters.SetID))
	}
	if filters.MD5Hash != "" {
		query.Set("md5_hash", filters.MD5Hash)
	}
	if filters.Mode != "" {
		query.Set("mode", filters.Mode)
	}
	if filters.PageSize != 0 {
		query.Set("page_size", strconv.Itoa(filters.PageSize))
	}
	var beatmaps []models.Beatmap
	if err := c.client.call(ctx, http.MethodGet, "/v1/beatmaps", query, nil, &beatmaps); err != nil {
		return nil, err
	}
	return beatmaps, nil
}

// GetBeatmapset fetches a beatmapset by id.
func (c *BeatmapsClient) GetBeatmapset(ctx context.Context, setID int) (*models.Beatmapset, error) {
	var set models.Beatmapset
	if err := c.client.call(ctx, http.MethodGet, "/v1/beatmapsets/"+strconv.Itoa(setID), nil, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}
