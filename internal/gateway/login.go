package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoshizora/bancho-gateway/internal/events"
	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

const (
	protocolVersion   = 19
	defaultPrivileges = 0x7FFFFFFF
)

// ParseLoginData parses the raw osu! login body:
//
//	<username>\n<password_md5>\n<version>|<utc>|<city>|<hash:...:>|<pm>
func ParseLoginData(body []byte) (*models.LoginData, error) {
	lines := strings.SplitN(string(body), "\n", 3)
	if len(lines) != 3 {
		return nil, fmt.Errorf("gateway: login body: expected 3 lines, got %d", len(lines))
	}
	username, passwordMD5, remainder := lines[0], lines[1], lines[2]

	fields := strings.SplitN(remainder, "|", 5)
	if len(fields) != 5 {
		return nil, fmt.Errorf("gateway: login body: expected 5 client fields, got %d", len(fields))
	}

	utcOffset, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("gateway: login body: utc offset: %w", err)
	}

	// The hash group ends with a ':' that would otherwise produce a sixth,
	// empty segment.
	hashes := strings.SplitN(strings.TrimSuffix(fields[3], ":"), ":", 5)
	if len(hashes) != 5 {
		return nil, fmt.Errorf("gateway: login body: expected 5 client hashes, got %d", len(hashes))
	}

	return &models.LoginData{
		Username:         username,
		PasswordMD5:      passwordMD5,
		OsuVersion:       fields[0],
		UTCOffset:        utcOffset,
		DisplayCity:      fields[2] == "1",
		PMPrivate:        fields[4] == "1",
		OsuPathMD5:       hashes[0],
		AdaptersStr:      hashes[1],
		AdaptersMD5:      hashes[2],
		UninstallMD5:     hashes[3],
		DiskSignatureMD5: hashes[4],
	}, nil
}

// handleLogin runs the login ceremony: create a session and presence, then
// assemble the initial packet burst the client expects.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("failed to read login body", "error", err)
		s.loginFailed(w)
		return
	}

	loginData, err := ParseLoginData(body)
	if err != nil {
		logger.Warn("malformed login body", "error", err)
		s.loginFailed(w)
		return
	}

	// One concurrent login per account.
	existing, err := s.clients.Users.GetAllPresences(ctx,
		services.PresenceFilters{Username: loginData.Username})
	if err != nil {
		logger.Error("failed to list presences", "error", err)
		s.loginFailed(w)
		return
	}
	if len(existing) > 0 {
		s.metrics.Logins.WithLabelValues("already_logged_in").Inc()
		w.Header().Set("cho-token", "no")
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(serial.WriteNotificationPacket("Your account is already logged in."))
		w.Write(serial.WriteAccountIDPacket(-1))
		return
	}

	session, err := s.clients.Users.LogIn(ctx, loginData.Username,
		loginData.PasswordMD5, "osu!")
	if err != nil {
		logger.Warn("login rejected", "username", loginData.Username, "error", err)
		s.loginFailed(w)
		return
	}

	var buf bytes.Buffer
	buf.Write(serial.WriteProtocolVersionPacket(protocolVersion))
	buf.Write(serial.WriteAccountIDPacket(int32(session.AccountID)))
	buf.Write(serial.WritePrivilegesPacket(defaultPrivileges))

	chats, err := s.clients.Chats.GetChats(ctx, services.ChatFilters{})
	if err != nil {
		logger.Error("failed to fetch chats", "session_id", session.SessionID, "error", err)
		s.loginFailed(w)
		return
	}
	for _, chat := range chats {
		if chat.Name == "#lobby" {
			continue
		}
		members, err := s.clients.Chats.GetMembers(ctx, chat.ChatID)
		if err != nil {
			logger.Error("failed to fetch chat members",
				"session_id", session.SessionID, "chat", chat.Name, "error", err)
			s.loginFailed(w)
			return
		}
		buf.Write(serial.WriteChannelInfoPacket(chat.Name, chat.Topic, uint16(len(members))))
	}
	buf.Write(serial.WriteChannelInfoEndPacket())

	if s.cfg.Bancho.MainMenuIconURL != "" {
		buf.Write(serial.WriteMainMenuIconPacket(s.cfg.Bancho.MainMenuIconURL,
			s.cfg.Bancho.MainMenuOnClickURL))
	}

	buf.Write(serial.WriteFriendsListPacket(nil))
	buf.Write(serial.WriteSilenceEndPacket(0))

	presence, err := s.clients.Users.CreatePresence(ctx, models.Presence{
		SessionID:   session.SessionID,
		AccountID:   session.AccountID,
		Username:    loginData.Username,
		GameMode:    0,
		CountryCode: s.cfg.Bancho.CountryCode,
		Privileges:  defaultPrivileges,
		Latitude:    s.cfg.Bancho.Latitude,
		Longitude:   s.cfg.Bancho.Longitude,
		Action:      models.ActionIdle,
		OsuVersion:  loginData.OsuVersion,
		UTCOffset:   loginData.UTCOffset,
		DisplayCity: loginData.DisplayCity,
		PMPrivate:   loginData.PMPrivate,
	})
	if err != nil {
		logger.Error("failed to create presence", "session_id", session.SessionID, "error", err)
		s.loginFailed(w)
		return
	}

	stats, err := s.clients.Users.GetStats(ctx, session.AccountID, int(presence.GameMode))
	if err != nil {
		logger.Error("failed to fetch stats", "session_id", session.SessionID, "error", err)
		s.loginFailed(w)
		return
	}

	selfPresencePacket := events.UserPresencePacket(presence, 0)
	selfStatsPacket := events.UserStatsPacket(presence, stats, 0)
	buf.Write(selfPresencePacket)
	buf.Write(selfStatsPacket)

	selfPackets := make([]byte, 0, len(selfPresencePacket)+len(selfStatsPacket))
	selfPackets = append(selfPackets, selfPresencePacket...)
	selfPackets = append(selfPackets, selfStatsPacket...)

	// Show the newcomer everyone online, and everyone online the newcomer.
	others, err := s.clients.Users.GetAllPresences(ctx, services.PresenceFilters{})
	if err != nil {
		logger.Error("failed to list presences", "session_id", session.SessionID, "error", err)
		s.loginFailed(w)
		return
	}
	for i := range others {
		other := &others[i]
		if other.SessionID == session.SessionID {
			continue
		}

		otherStats, err := s.clients.Users.GetStats(ctx, other.AccountID, int(other.GameMode))
		if err != nil {
			logger.Error("failed to fetch stats",
				"account_id", other.AccountID, "error", err)
			s.loginFailed(w)
			return
		}

		buf.Write(events.UserPresencePacket(other, 0))
		buf.Write(events.UserStatsPacket(other, otherStats, 0))

		if err := s.clients.Users.EnqueueData(ctx, other.SessionID, selfPackets); err != nil {
			logger.Error("failed to enqueue data",
				"session_id", other.SessionID, "error", err)
			s.loginFailed(w)
			return
		}
	}

	buf.Write(serial.WriteNotificationPacket(s.cfg.Bancho.WelcomeMessage))

	s.metrics.Logins.WithLabelValues("success").Inc()
	w.Header().Set("cho-token", session.SessionID.String())
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(buf.Bytes())
}

// loginFailed sends the canonical login failure: ACCOUNT_ID(-1) with no
// token, always HTTP 200 so the client renders the error itself.
func (s *Server) loginFailed(w http.ResponseWriter) {
	s.metrics.Logins.WithLabelValues("failure").Inc()
	w.Header().Set("cho-token", "no")
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(serial.WriteAccountIDPacket(-1))
}
