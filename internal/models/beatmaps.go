package models

import "time"

// Ranked statuses as the osu! api reports them.
const (
	RankedStatusGraveyard      = -2
	RankedStatusWorkInProgress = -1
	RankedStatusPending        = 0
	RankedStatusRanked         = 1
	RankedStatusApproved       = 2
	RankedStatusQualified      = 3
	RankedStatusLoved          = 4
)

// Beatmap is a single difficulty of a beatmapset.
type Beatmap struct {
	BeatmapID        int     `json:"beatmap_id"`
	MD5Hash          string  `json:"md5_hash"`
	SetID            int     `json:"set_id"`
	Convert          bool    `json:"convert"`
	Mode             string  `json:"mode"` // osu|taiko|fruits|mania
	OD               float64 `json:"od"`
	AR               float64 `json:"ar"`
	CS               float64 `json:"cs"`
	HP               float64 `json:"hp"`
	BPM              float64 `json:"bpm"`
	HitLength        int     `json:"hit_length"`
	TotalLength      int     `json:"total_length"`
	CountCircles     int     `json:"count_circles"`
	CountSliders     int     `json:"count_sliders"`
	CountSpinners    int     `json:"count_spinners"`
	DifficultyRating float64 `json:"difficulty_rating"`
	IsScoreable      bool    `json:"is_scoreable"`
	PassCount        int     `json:"pass_count"`
	PlayCount        int     `json:"play_count"`
	Version          string  `json:"version"`
	CreatedBy        int     `json:"created_by"`
	RankedStatus     int     `json:"ranked_status"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Beatmapset groups the difficulties of a single mapped song.
type Beatmapset struct {
	BeatmapsetID int    `json:"beatmapset_id"`
	Artist       string `json:"artist"`
	Title        string `json:"title"`
	MapperName   string `json:"mapper_name"`
	RankedStatus int    `json:"ranked_status"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
