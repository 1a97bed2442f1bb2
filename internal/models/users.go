// Package models holds the typed records exchanged with the backend
// services. Field sets mirror the documented service schemas; unknown
// fields in responses are ignored.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the soft-deletion state shared by most backend records.
type Status string

const (
	StatusActive   Status = "active"
	StatusDeleted  Status = "deleted"
	StatusArchived Status = "archived"
)

// Account is a registered user, owned by the users service.
type Account struct {
	AccountID    int       `json:"account_id"`
	Username     string    `json:"username"`
	SafeUsername string    `json:"safe_username"`
	EmailAddress string    `json:"email_address"`
	Country      string    `json:"country"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is the authenticated identity handle issued at login and carried
// in the osu-token / cho-token headers. The gateway holds it read-only.
type Session struct {
	SessionID uuid.UUID `json:"session_id"`
	AccountID int       `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginData is the parsed body of an osu! login request.
type LoginData struct {
	Username         string
	PasswordMD5      string
	OsuVersion       string
	UTCOffset        int
	DisplayCity      bool
	PMPrivate        bool
	OsuPathMD5       string
	AdaptersStr      string
	AdaptersMD5      string
	UninstallMD5     string
	DiskSignatureMD5 string
}

// Client actions shown in presence info.
const (
	ActionIdle         = 0
	ActionAFK          = 1
	ActionPlaying      = 2
	ActionEditing      = 3
	ActionModding      = 4
	ActionMultiplayer  = 5
	ActionWatching     = 6
	ActionUnknown      = 7
	ActionTesting      = 8
	ActionSubmitting   = 9
	ActionPaused       = 10
	ActionLobby        = 11
	ActionMultiplaying = 12
	ActionOsuDirect    = 13
)

// Presence is a session's live client state. At most one exists per
// session_id; it is destroyed at logout.
type Presence struct {
	SessionID   uuid.UUID `json:"session_id"`
	AccountID   int       `json:"account_id"`
	Username    string    `json:"username"`
	GameMode    uint8     `json:"game_mode"`
	CountryCode uint8     `json:"country_code"`
	Privileges  int32     `json:"privileges"`
	Latitude    float32   `json:"latitude"`
	Longitude   float32   `json:"longitude"`
	Action      uint8     `json:"action"`
	InfoText    string    `json:"info_text"`
	MapMD5      string    `json:"map_md5"`
	MapID       int32     `json:"map_id"`
	Mods        uint32    `json:"mods"`

	OsuVersion  string `json:"osu_version"`
	UTCOffset   int    `json:"utc_offset"`
	DisplayCity bool   `json:"display_city"`
	PMPrivate   bool   `json:"pm_private"`
}

// Stats is an account's per-game-mode score record.
type Stats struct {
	AccountID   int     `json:"account_id"`
	GameMode    uint8   `json:"game_mode"`
	TotalScore  int64   `json:"total_score"`
	RankedScore int64   `json:"ranked_score"`
	Performance int16   `json:"performance"`
	PlayCount   int32   `json:"play_count"`
	PlayTime    int     `json:"play_time"`
	Accuracy    float32 `json:"accuracy"` // percentage, 0-100
	MaxCombo    int     `json:"max_combo"`
	TotalHits   int     `json:"total_hits"`
	ReplayViews int     `json:"replay_views"`
	XHCount     int     `json:"xh_count"`
	XCount      int     `json:"x_count"`
	SHCount     int     `json:"sh_count"`
	SCount      int     `json:"s_count"`
	ACount      int     `json:"a_count"`
	Status      Status  `json:"status"`
}

// PacketData travels as a JSON array of byte values, matching the
// users-service queued-packets wire format.
type PacketData []byte

func (d PacketData) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(d))
	for i, b := range d {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}

func (d *PacketData) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		out[i] = byte(v)
	}
	*d = out
	return nil
}

// QueuedPacket is an opaque byte blob addressed to a session, buffered by
// the users service until the session's next poll.
type QueuedPacket struct {
	Data      PacketData `json:"data"`
	CreatedAt time.Time  `json:"created_at"`
}

// Spectator is a directed edge from a spectating session to its host.
type Spectator struct {
	HostSessionID uuid.UUID `json:"host_session_id"`
	SessionID     uuid.UUID `json:"session_id"`
	AccountID     int       `json:"account_id"`
	CreatedAt     time.Time `json:"created_at"`
}
