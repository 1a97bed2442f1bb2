package gateway

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

const sessionExtension = 5 * time.Minute

// handleBancho is the poll loop: keep the session alive, dispatch whatever
// packets the client sent, then drain its delivery queue.
func (s *Server) handleBancho(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	sessionID, err := uuid.Parse(r.Header.Get("osu-token"))
	if err != nil {
		s.restartResponse(w)
		return
	}

	session, err := s.clients.Users.ExtendSession(ctx, sessionID,
		time.Now().Add(sessionExtension))
	if err != nil {
		// Session unknown or expired; tell the client to reconnect.
		logger.Warn("stale session", "session_id", sessionID, "error", err)
		s.restartResponse(w)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("failed to read poll body", "session_id", sessionID, "error", err)
		body = nil
	}

	var buf bytes.Buffer
	buf.Write(s.dispatcher.Run(ctx, session, body))

	w.Header().Set("Content-Type", "application/octet-stream")

	queued, err := s.clients.Users.DequeueAllData(ctx, sessionID)
	if err != nil {
		// Error exits respond 200 with an empty body; the queue keeps the
		// undelivered packets for the next poll.
		logger.Error("failed to dequeue packets", "session_id", sessionID, "error", err)
		return
	}
	for _, packet := range queued {
		buf.Write(packet.Data)
	}

	w.Write(buf.Bytes())
}

// restartResponse tells the client its session is gone and it should log
// in again.
func (s *Server) restartResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Write(serial.WriteNotificationPacket("Service has restarted"))
	w.Write(serial.WriteRestartPacket(0))
}
