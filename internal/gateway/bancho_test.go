package gateway

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

func pollRequest(body []byte, sessionID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/bancho", bytes.NewReader(body))
	req.Header.Set("osu-token", sessionID.String())
	return req
}

// sessionBackend serves the PATCH keep-alive and an empty packet queue.
func sessionBackend(mux *http.ServeMux, session models.Session) {
	mux.HandleFunc("PATCH /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, session)
	})
	mux.HandleFunc("GET /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.QueuedPacket{})
	})
}

func TestBanchoStaleSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, pollRequest(nil, uuid.New()))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("cho-token"))

	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 2)
	assert.Equal(t, uint16(serial.ServerNotification), frames[0].id)
	assert.Equal(t, "Service has restarted", readPacketString(t, frames[0].body))
	assert.Equal(t, uint16(serial.ServerRestart), frames[1].id)
}

func TestBanchoUnknownOpcode(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}

	mux := http.NewServeMux()
	sessionBackend(mux, session)

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, pollRequest(clientPacket(9999, nil), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)

	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 1)
	assert.Equal(t, uint16(serial.ServerNotification), frames[0].id)
	assert.Equal(t, "[Unhandled Packet] Unknown (9999)", readPacketString(t, frames[0].body))
}

func TestBanchoPingIsSilent(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}

	mux := http.NewServeMux()
	sessionBackend(mux, session)

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, pollRequest(clientPacket(serial.ClientPing, nil), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.Bytes())
}

func TestBanchoDeliversQueuedPackets(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}
	queued := serial.WriteNotificationPacket("queued hello")

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, session)
	})
	mux.HandleFunc("GET /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.QueuedPacket{{Data: models.PacketData(queued)}})
	})

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, pollRequest(nil, session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, queued, rr.Body.Bytes())
}

func TestBanchoChangeActionFanOut(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}
	presence := models.Presence{SessionID: session.SessionID, AccountID: 5, Action: models.ActionPlaying}

	var enqueues atomic.Int32

	mux := http.NewServeMux()
	sessionBackend(mux, session)
	mux.HandleFunc("PATCH /v1/presences/{id}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, presence)
	})
	mux.HandleFunc("GET /v1/accounts/{id}/stats/{mode}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, models.Stats{AccountID: 5})
	})
	mux.HandleFunc("GET /v1/presences", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Presence{
			presence,
			{SessionID: uuid.New(), AccountID: 6},
			{SessionID: uuid.New(), AccountID: 7},
		})
	})
	mux.HandleFunc("POST /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		enqueues.Add(1)
		respondData(w, models.QueuedPacket{})
	})

	w := serial.NewWriter()
	w.WriteUint8(models.ActionPlaying)
	w.WriteString("playing a map")
	w.WriteString(strings.Repeat("a", 32))
	w.WriteUint32(0)
	w.WriteUint8(0)
	w.WriteInt32(42)

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr,
		pollRequest(clientPacket(serial.ClientChangeAction, w.Bytes()), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	// The broadcast includes the sender; their copy arrives via the queue.
	assert.Equal(t, int32(3), enqueues.Load())
	assert.Empty(t, rr.Body.Bytes())
}

func TestBanchoOversizedMessageRejected(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}

	var enqueues atomic.Int32

	mux := http.NewServeMux()
	sessionBackend(mux, session)
	mux.HandleFunc("POST /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		enqueues.Add(1)
		respondData(w, models.QueuedPacket{})
	})

	w := serial.NewWriter()
	w.WriteString("")
	w.WriteString(strings.Repeat("a", 1001))
	w.WriteString("#osu")
	w.WriteInt32(0)

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr,
		pollRequest(clientPacket(serial.ClientSendPublicMessage, w.Bytes()), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int32(0), enqueues.Load())

	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 1)
	assert.Equal(t, uint16(serial.ServerNotification), frames[0].id)
	assert.Equal(t, "Your message was not sent.\n(it exceeded the 1K character limit)",
		readPacketString(t, frames[0].body))
}

func TestBanchoForgedSenderDropped(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}

	var enqueues atomic.Int32

	mux := http.NewServeMux()
	sessionBackend(mux, session)
	mux.HandleFunc("POST /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		enqueues.Add(1)
		respondData(w, models.QueuedPacket{})
	})

	w := serial.NewWriter()
	w.WriteString("impostor")
	w.WriteString("hello")
	w.WriteString("#osu")
	w.WriteInt32(7)

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr,
		pollRequest(clientPacket(serial.ClientSendPublicMessage, w.Bytes()), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int32(0), enqueues.Load())
	assert.Empty(t, rr.Body.Bytes())
}

func TestBanchoDequeueFailureEmptyBody(t *testing.T) {
	session := models.Session{SessionID: uuid.New(), AccountID: 5}

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, session)
	})
	mux.HandleFunc("GET /v1/sessions/{id}/queued-packets", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := newTestServer(t, mux)

	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, pollRequest(clientPacket(9999, nil), session.SessionID))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Body.Bytes())
}

func TestBanchoMissingToken(t *testing.T) {
	server := newTestServer(t, http.NewServeMux())

	req := httptest.NewRequest(http.MethodPost, "/v1/bancho", nil)
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 2)
	assert.Equal(t, uint16(serial.ServerRestart), frames[1].id)
}
