package models

import "time"

// Score is a submitted play, owned by the scores service.
type Score struct {
	ScoreID        int64   `json:"score_id"`
	BeatmapMD5     string  `json:"beatmap_md5"`
	AccountID      int     `json:"account_id"`
	Username       string  `json:"username"`
	Mode           string  `json:"mode"` // osu|taiko|fruits|mania
	Mods           int     `json:"mods"`
	Score          int64   `json:"score"`
	Performance    float64 `json:"performance"`
	Accuracy       float64 `json:"accuracy"`
	MaxCombo       int     `json:"max_combo"`
	Count50s       int     `json:"count_50s"`
	Count100s      int     `json:"count_100s"`
	Count300s      int     `json:"count_300s"`
	CountGekis     int     `json:"count_gekis"`
	CountKatus     int     `json:"count_katus"`
	CountMisses    int     `json:"count_misses"`
	Grade          string  `json:"grade"`
	Passed         bool    `json:"passed"`
	Perfect        bool    `json:"perfect"`
	SecondsElapsed int     `json:"seconds_elapsed"`
	AnticheatFlags int     `json:"anticheat_flags"`
	ClientChecksum string  `json:"client_checksum"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
