package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hoshizora/bancho-gateway/internal/models"
)

// UsersClient talks to the users service: accounts, sessions, presences,
// stats, queued packets and spectators.
type UsersClient struct {
	client *client
}

// LogIn exchanges credentials for a new session.
func (c *UsersClient) LogIn(ctx context.Context, identifier, passphrase, userAgent string) (*models.Session, error) {
	body := map[string]string{
		"identifier": identifier,
		"passphrase": passphrase,
		"user_agent": userAgent,
	}
	var session models.Session
	if err := c.client.call(ctx, http.MethodPost, "/v1/sessions", nil, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// LogOut destroys the session.
func (c *UsersClient) LogOut(ctx context.Context, sessionID uuid.UUID) error {
	return c.client.call(ctx, http.MethodDelete, "/v1/sessions/"+sessionID.String(), nil, nil, nil)
}

// GetSession fetches a session by id.
func (c *UsersClient) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := c.client.call(ctx, http.MethodGet, "/v1/sessions/"+sessionID.String(), nil, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetAllSessions lists sessions, optionally filtered by account.
func (c *UsersClient) GetAllSessions(ctx context.Context, accountID int) ([]models.Session, error) {
	query := url.Values{}
	if accountID != 0 {
		query.Set("account_id", strconv.Itoa(accountID))
	}
	var sessions []models.Session
	if err := c.client.call(ctx, http.MethodGet, "/v1/sessions", query, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ExtendSession moves the session's expiry forward.
func (c *UsersClient) ExtendSession(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	body := map[string]string{
		"expires_at": expiresAt.UTC().Format(time.RFC3339Nano),
	}
	var session models.Session
	if err := c.client.call(ctx, http.MethodPatch, "/v1/sessions/"+sessionID.String(), nil, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetAccount fetches an account by id.
func (c *UsersClient) GetAccount(ctx context.Context, accountID int) (*models.Account, error) {
	var account models.Account
	if err := c.client.call(ctx, http.MethodGet, "/v1/accounts/"+strconv.Itoa(accountID), nil, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetStats fetches an account's stats for one game mode.
func (c *UsersClient) GetStats(ctx context.Context, accountID, gameMode int) (*models.Stats, error) {
	path := "/v1/accounts/" + strconv.Itoa(accountID) + "/stats/" + strconv.Itoa(gameMode)
	var stats models.Stats
	if err := c.client.call(ctx, http.MethodGet, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreatePresence publishes a session's initial client state.
func (c *UsersClient) CreatePresence(ctx context.Context, presence models.Presence) (*models.Presence, error) {
	var created models.Presence
	if err := c.client.call(ctx, http.MethodPost, "/v1/presences", nil, presence, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetPresence fetches the presence for a session.
func (c *UsersClient) GetPresence(ctx context.Context, sessionID uuid.UUID) (*models.Presence, error) {
	var presence models.Presence
	if err := c.client.call(ctx, http.MethodGet, "/v1/presences/"+sessionID.String(), nil, nil, &presence); err != nil {
		return nil, err
	}
	return &presence, nil
}

// PresenceFilters narrows GetAllPresences. Zero values are not sent.
type PresenceFilters struct {
	AccountID int
	Username  string
}

// GetAllPresences lists online presences matching the filters.
func (c *UsersClient) GetAllPresences(ctx context.Context, filters PresenceFilters) ([]models.Presence, error) {
	query := url.Values{}
	if filters.AccountID != 0 {
		query.Set("account_id", strconv.Itoa(filters.AccountID))
	}
	if filters.Username != "" {
		query.Set("username", filters.Username)
	}
	var presences []models.Presence
	if err := c.client.call(ctx, http.MethodGet, "/v1/presences", query, nil, &presences); err != nil {
		return nil, err
	}
	return presences, nil
}

// PresenceUpdate is a partial presence change. Nil fields are untouched.
type PresenceUpdate struct {
	GameMode *uint8  `json:"game_mode,omitempty"`
	Action   *uint8  `json:"action,omitempty"`
	InfoText *string `json:"info_text,omitempty"`
	MapMD5   *string `json:"map_md5,omitempty"`
	MapID    *int32  `json:"map_id,omitempty"`
	Mods     *uint32 `json:"mods,omitempty"`
}

// UpdatePresence applies a partial update and returns the new presence.
func (c *UsersClient) UpdatePresence(ctx context.Context, sessionID uuid.UUID, update PresenceUpdate) (*models.Presence, error) {
	var presence models.Presence
	if err := c.client.call(ctx, http.MethodPatch, "/v1/presences/"+sessionID.String(), nil, update, &presence); err != nil {
		return nil, err
	}
	return &presence, nil
}

// DeletePresence removes a session's presence.
func (c *UsersClient) DeletePresence(ctx context.Context, sessionID uuid.UUID) error {
	return c.client.call(ctx, http.MethodDelete, "/v1/presences/"+sessionID.String(), nil, nil, nil)
}

// EnqueueData appends packet bytes to a session's delivery queue.
func (c *UsersClient) EnqueueData(ctx context.Context, sessionID uuid.UUID, data []byte) error {
	body := map[string]models.PacketData{"data": models.PacketData(data)}
	path := "/v1/sessions/" + sessionID.String() + "/queued-packets"
	return c.client.call(ctx, http.MethodPost, path, nil, body, nil)
}

// DequeueAllData drains a session's delivery queue.
func (c *UsersClient) DequeueAllData(ctx context.Context, sessionID uuid.UUID) ([]models.QueuedPacket, error) {
	path := "/v1/sessions/" + sessionID.String() + "/queued-packets"
	var packets []models.QueuedPacket
	if err := c.client.call(ctx, http.MethodGet, path, nil, nil, &packets); err != nil {
		return nil, err
	}
	return packets, nil
}

// CreateSpectator attaches a spectating session to a host session.
func (c *UsersClient) CreateSpectator(ctx context.Context, hostSessionID, sessionID uuid.UUID, accountID int) (*models.Spectator, error) {
	body := map[string]any{
		"session_id": sessionID,
		"account_id": accountID,
	}
	path := "/v1/sessions/" + hostSessionID.String() + "/spectators"
	var spectator models.Spectator
	if err := c.client.call(ctx, http.MethodPost, path, nil, body, &spectator); err != nil {
		return nil, err
	}
	return &spectator, nil
}

// DeleteSpectator detaches a spectating session from a host session.
func (c *UsersClient) DeleteSpectator(ctx context.Context, hostSessionID, sessionID uuid.UUID) error {
	path := "/v1/sessions/" + hostSessionID.String() + "/spectators/" + sessionID.String()
	return c.client.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetSpectators lists the sessions spectating a host.
func (c *UsersClient) GetSpectators(ctx context.Context, hostSessionID uuid.UUID) ([]models.Spectator, error) {
	path := "/v1/sessions/" + hostSessionID.String() + "/spectators"
	var spectators []models.Spectator
	if err := c.client.call(ctx, http.MethodGet, path, nil, nil, &spectators); err != nil {
		return nil, err
	}
	return spectators, nil
}

// GetSpectatorHost resolves the host a session is spectating, if any.
func (c *UsersClient) GetSpectatorHost(ctx context.Context, sessionID uuid.UUID) (*models.Spectator, error) {
	path := "/v1/sessions/" + sessionID.String() + "/spectating"
	var spectator models.Spectator
	if err := c.client.call(ctx, http.MethodGet, path, nil, nil, &spectator); err != nil {
		return nil, err
	}
	return &spectator, nil
}
