package events

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

const maxMessageLength = 1000 // unicode code points

// The osu! client fabricates these channels locally and still sends join,
// part and message requests for them.
var clientOnlyChannels = map[string]bool{
	"#highlight": true,
	"#userlog":   true,
}

// handleSendPublicMessage fans a channel message out to every other member
// of the channel.
func (d *Dispatcher) handleSendPublicMessage(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	sender, err := reader.ReadString()
	if err != nil {
		return nil, err
	}
	message, err := reader.ReadString()
	if err != nil {
		return nil, err
	}
	recipient, err := reader.ReadString()
	if err != nil {
		return nil, err
	}
	senderID, err := reader.ReadInt32()
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)

	// Clients always send a blank sender and a zero sender id; the gateway
	// fills them in from the session.
	if sender != "" || senderID != 0 {
		logger.Warn("message with forged sender",
			"session_id", session.SessionID, "sender", sender, "sender_id", senderID)
		return nil, nil
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, nil
	}

	if clientOnlyChannels[recipient] {
		return nil, nil
	}

	if utf8.RuneCountInString(message) > maxMessageLength {
		logger.Warn("message too long", "session_id", session.SessionID)
		return serial.WriteNotificationPacket("Your message was not sent.\n" +
			"(it exceeded the 1K character limit)"), nil
	}

	chats, err := d.clients.Chats.GetChats(ctx, services.ChatFilters{Name: recipient})
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		logger.Warn("message to unknown channel",
			"session_id", session.SessionID, "channel", recipient)
		return nil, nil
	}
	chat := chats[0]

	members, err := d.clients.Chats.GetMembers(ctx, chat.ChatID)
	if err != nil {
		return nil, err
	}

	isMember := false
	for _, member := range members {
		if member.AccountID == session.AccountID {
			isMember = true
			break
		}
	}
	if !isMember {
		logger.Warn("message to channel the sender is not in",
			"session_id", session.SessionID, "channel", chat.Name)
		return nil, nil
	}

	account, err := d.clients.Users.GetAccount(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}

	packet := serial.WriteSendMessagePacket(account.Username, message,
		recipient, int32(account.AccountID))

	for _, member := range members {
		if member.SessionID == session.SessionID {
			continue
		}
		if err := d.clients.Users.EnqueueData(ctx, member.SessionID, packet); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

// handleChannelJoin adds the player to a channel and pushes the updated
// member count to everyone online.
func (d *Dispatcher) handleChannelJoin(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	channelName, err := reader.ReadString()
	if err != nil {
		return nil, err
	}

	if clientOnlyChannels[channelName] {
		return nil, nil
	}

	logger := logging.FromContext(ctx)

	chats, err := d.clients.Chats.GetChats(ctx, services.ChatFilters{Name: channelName})
	if err != nil {
		return nil, err
	}
	if len(chats) != 1 {
		return nil, nil
	}
	chat := chats[0]

	members, err := d.clients.Chats.GetMembers(ctx, chat.ChatID)
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		if member.AccountID == session.AccountID {
			logger.Warn("join for channel the player is already in",
				"session_id", session.SessionID, "channel", channelName)
			return nil, nil
		}
	}

	account, err := d.clients.Users.GetAccount(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}

	if _, err := d.clients.Chats.JoinChat(ctx, chat.ChatID, session.SessionID,
		session.AccountID, account.Username, 0); err != nil {
		return nil, err
	}

	if err := d.broadcastChannelInfo(ctx, chat.Name, chat.Topic, len(members)+1); err != nil {
		return nil, err
	}

	return serial.WriteChannelJoinSuccessPacket(channelName), nil
}

// handleChannelPart removes the player from a channel and pushes the
// updated member count to everyone online.
func (d *Dispatcher) handleChannelPart(ctx context.Context, session *models.Session, data []byte) ([]byte, error) {
	reader := serial.NewReader(data)
	channelName, err := reader.ReadString()
	if err != nil {
		return nil, err
	}

	if clientOnlyChannels[channelName] {
		return nil, nil
	}

	logger := logging.FromContext(ctx)

	chats, err := d.clients.Chats.GetChats(ctx, services.ChatFilters{Name: channelName})
	if err != nil {
		return nil, err
	}
	if len(chats) != 1 {
		return nil, nil
	}
	chat := chats[0]

	members, err := d.clients.Chats.GetMembers(ctx, chat.ChatID)
	if err != nil {
		return nil, err
	}

	isMember := false
	for _, member := range members {
		if member.AccountID == session.AccountID {
			isMember = true
			break
		}
	}
	if !isMember {
		logger.Warn("part for channel the player is not in",
			"session_id", session.SessionID, "channel", channelName)
		return nil, nil
	}

	if err := d.clients.Chats.LeaveChat(ctx, chat.ChatID, session.SessionID); err != nil {
		return nil, err
	}

	if err := d.broadcastChannelInfo(ctx, chat.Name, chat.Topic, len(members)-1); err != nil {
		return nil, err
	}

	return nil, nil
}

// broadcastChannelInfo pushes a CHANNEL_INFO refresh to every online player.
func (d *Dispatcher) broadcastChannelInfo(ctx context.Context, name, topic string, userCount int) error {
	packet := serial.WriteChannelInfoPacket(name, topic, uint16(userCount))

	presences, err := d.clients.Users.GetAllPresences(ctx, services.PresenceFilters{})
	if err != nil {
		return err
	}
	for _, presence := range presences {
		if err := d.clients.Users.EnqueueData(ctx, presence.SessionID, packet); err != nil {
			return err
		}
	}
	return nil
}
