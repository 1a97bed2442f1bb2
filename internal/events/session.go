package events

import (
	"context"

	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

// The client pings whenever it has nothing else to say; the queued packets
// picked up by the poll loop are answer enough.
func (d *Dispatcher) handlePing(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	return nil, nil
}

// handleLogout tears the session down: presence, session record, chat
// memberships, then a USER_LOGOUT broadcast to everyone still online.
func (d *Dispatcher) handleLogout(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	if err := d.clients.Users.DeletePresence(ctx, session.SessionID); err != nil {
		return nil, err
	}

	if err := d.clients.Users.LogOut(ctx, session.SessionID); err != nil {
		return nil, err
	}

	chats, err := d.clients.Chats.GetChats(ctx, services.ChatFilters{})
	if err != nil {
		return nil, err
	}
	for _, chat := range chats {
		if err := d.clients.Chats.LeaveChat(ctx, chat.ChatID, session.SessionID); err != nil {
			return nil, err
		}
	}

	presences, err := d.clients.Users.GetAllPresences(ctx, services.PresenceFilters{})
	if err != nil {
		return nil, err
	}

	logout := serial.WriteUserLogoutPacket(int32(session.AccountID))
	for _, presence := range presences {
		if err := d.clients.Users.EnqueueData(ctx, presence.SessionID, logout); err != nil {
			return nil, err
		}
	}

	return nil, nil
}
