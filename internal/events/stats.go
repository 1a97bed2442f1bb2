package events

import (
	"bytes"
	"context"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

// handleRequestSelfStats refreshes the client's own stats panel.
func (d *Dispatcher) handleRequestSelfStats(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	presence, err := d.clients.Users.GetPresence(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}

	stats, err := d.clients.Users.GetStats(ctx, session.AccountID, int(presence.GameMode))
	if err != nil {
		return nil, err
	}

	return UserStatsPacket(presence, stats, 0), nil
}

// handleRequestAllUserStats sends the stats of every other online player.
func (d *Dispatcher) handleRequestAllUserStats(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	presences, err := d.clients.Users.GetAllPresences(ctx, services.PresenceFilters{})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for i := range presences {
		presence := &presences[i]
		if presence.SessionID == session.SessionID {
			continue
		}

		stats, err := d.clients.Users.GetStats(ctx, presence.AccountID, int(presence.GameMode))
		if err != nil {
			return nil, err
		}

		buf.Write(UserStatsPacket(presence, stats, 0))
	}

	return buf.Bytes(), nil
}

// handleChangeAction updates the player's presence and broadcasts the new
// stats to everyone online, the sender included so its own panel refreshes.
func (d *Dispatcher) handleChangeAction(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	action, err := reader.ReadUint8()
	if err != nil {
		return nil, err
	}
	infoText, err := reader.ReadString()
	if err != nil {
		return nil, err
	}
	mapMD5, err := reader.ReadString()
	if err != nil {
		return nil, err
	}
	mods, err := reader.ReadUint32()
	if err != nil {
		return nil, err
	}
	mode, err := reader.ReadUint8()
	if err != nil {
		return nil, err
	}
	mapID, err := reader.ReadInt32()
	if err != nil {
		return nil, err
	}

	presence, err := d.clients.Users.UpdatePresence(ctx, session.SessionID, services.PresenceUpdate{
		Action:   ptr(action),
		InfoText: ptr(infoText),
		MapMD5:   ptr(mapMD5),
		Mods:     ptr(mods),
		GameMode: ptr(mode),
		MapID:    ptr(mapID),
	})
	if err != nil {
		return nil, err
	}

	stats, err := d.clients.Users.GetStats(ctx, presence.AccountID, int(presence.GameMode))
	if err != nil {
		return nil, err
	}

	presences, err := d.clients.Users.GetAllPresences(ctx, services.PresenceFilters{})
	if err != nil {
		return nil, err
	}

	packet := UserStatsPacket(presence, stats, 0)
	for _, other := range presences {
		if err := d.clients.Users.EnqueueData(ctx, other.SessionID, packet); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// handleUpdatePresenceFilter validates the filter value. The gateway keeps
// no per-session filter state, so a valid value is simply acknowledged.
func (d *Dispatcher) handleUpdatePresenceFilter(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	filter, err := reader.ReadUint8()
	if err != nil {
		return nil, err
	}

	if filter > 2 {
		logging.FromContext(ctx).Warn("invalid presence filter",
			"session_id", session.SessionID, "filter", filter)
	}

	return nil, nil
}
