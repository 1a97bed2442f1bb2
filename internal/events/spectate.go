package events

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

// handleStartSpectating attaches the player to the target's spectator list,
// tells the host, and introduces the newcomer to the other spectators.
func (d *Dispatcher) handleStartSpectating(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	targetID, err := reader.ReadInt32()
	if err != nil {
		return nil, err
	}

	sessions, err := d.clients.Users.GetAllSessions(ctx, int(targetID))
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		logging.FromContext(ctx).Warn("spectate target not online",
			"session_id", session.SessionID, "target_id", targetID)
		return nil, nil
	}
	host := sessions[0]

	if _, err := d.clients.Users.CreateSpectator(ctx, host.SessionID,
		session.SessionID, session.AccountID); err != nil {
		return nil, err
	}

	joined := serial.WriteSpectatorJoinedPacket(int32(session.AccountID))
	if err := d.clients.Users.EnqueueData(ctx, host.SessionID, joined); err != nil {
		return nil, err
	}

	spectators, err := d.clients.Users.GetSpectators(ctx, host.SessionID)
	if err != nil {
		return nil, err
	}

	// Introduce the newcomer and the existing spectators to each other.
	var buf bytes.Buffer
	fellow := serial.WriteFellowSpectatorJoinedPacket(int32(session.AccountID))
	for _, spectator := range spectators {
		if spectator.SessionID == session.SessionID {
			continue
		}
		buf.Write(serial.WriteFellowSpectatorJoinedPacket(int32(spectator.AccountID)))
		if err := d.clients.Users.EnqueueData(ctx, spectator.SessionID, fellow); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// handleStopSpectating detaches the player from their host and tells the
// host and remaining spectators.
func (d *Dispatcher) handleStopSpectating(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	record, err := d.clients.Users.GetSpectatorHost(ctx, session.SessionID)
	if err != nil {
		return nil, fmt.Errorf("resolve spectated host: %w", err)
	}
	hostSessionID := record.HostSessionID

	if err := d.clients.Users.DeleteSpectator(ctx, hostSessionID, session.SessionID); err != nil {
		return nil, err
	}

	left := serial.WriteSpectatorLeftPacket(int32(session.AccountID))
	if err := d.clients.Users.EnqueueData(ctx, hostSessionID, left); err != nil {
		return nil, err
	}

	spectators, err := d.clients.Users.GetSpectators(ctx, hostSessionID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fellow := serial.WriteFellowSpectatorLeftPacket(int32(session.AccountID))
	for _, spectator := range spectators {
		if spectator.SessionID == session.SessionID {
			continue
		}
		buf.Write(serial.WriteFellowSpectatorLeftPacket(int32(spectator.AccountID)))
		if err := d.clients.Users.EnqueueData(ctx, spectator.SessionID, fellow); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// handleSpectateFrames relays a replay frame bundle, body untouched, to
// every session spectating the sender.
func (d *Dispatcher) handleSpectateFrames(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	spectators, err := d.clients.Users.GetSpectators(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}

	packet := serial.WriteSpectateFramesPacket(data)
	for _, spectator := range spectators {
		if err := d.clients.Users.EnqueueData(ctx, spectator.SessionID, packet); err != nil {
			return nil, err
		}
	}

	return nil, nil
}
