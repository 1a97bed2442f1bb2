package gateway

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

const loginBody = "user\npw32hex\nb20211015.2|-5|1|" +
	"pathmd5:adapters_here:adaptersmd5:uninstallmd5:disksigmd5:|0"

func TestParseLoginData(t *testing.T) {
	data, err := ParseLoginData([]byte(loginBody))
	require.NoError(t, err)

	assert.Equal(t, &models.LoginData{
		Username:         "user",
		PasswordMD5:      "pw32hex",
		OsuVersion:       "b20211015.2",
		UTCOffset:        -5,
		DisplayCity:      true,
		PMPrivate:        false,
		OsuPathMD5:       "pathmd5",
		AdaptersStr:      "adapters_here",
		AdaptersMD5:      "adaptersmd5",
		UninstallMD5:     "uninstallmd5",
		DiskSignatureMD5: "disksigmd5",
	}, data)
}

func TestParseLoginDataMalformed(t *testing.T) {
	for _, body := range []string{
		"",
		"user\npw",
		"user\npw\nversion|nonsense",
		"user\npw\nversion|notanumber|1|a:b:c:d:e:|0",
		"user\npw\nversion|-5|1|toofew:|0",
	} {
		_, err := ParseLoginData([]byte(body))
		assert.Error(t, err, "body %q", body)
	}
}

func TestLoginHappyPath(t *testing.T) {
	sessionID := uuid.New()
	const accountID = 5

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/presences", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Presence{})
	})
	mux.HandleFunc("POST /v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, models.Session{SessionID: sessionID, AccountID: accountID})
	})
	mux.HandleFunc("GET /v1/chats", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Chat{
			{ChatID: 1, Name: "#osu", Topic: "general"},
			{ChatID: 2, Name: "#lobby", Topic: "multiplayer"},
			{ChatID: 3, Name: "#announce", Topic: "announcements"},
		})
	})
	mux.HandleFunc("GET /v1/chats/{id}/members", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Member{})
	})
	mux.HandleFunc("POST /v1/presences", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, models.Presence{
			SessionID: sessionID,
			AccountID: accountID,
			Username:  "user",
		})
	})
	mux.HandleFunc("GET /v1/accounts/{id}/stats/{mode}", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, models.Stats{AccountID: accountID})
	})

	server := newTestServer(t, mux)

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(loginBody))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, sessionID.String(), rr.Header().Get("cho-token"))

	frames := readFrames(t, rr.Body.Bytes())
	require.NotEmpty(t, frames)

	assert.Equal(t, uint16(serial.ServerProtocolVersion), frames[0].id)
	version, err := serial.NewReader(frames[0].body).ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(19), version)

	assert.Equal(t, uint16(serial.ServerAccountID), frames[1].id)
	gotAccountID, err := serial.NewReader(frames[1].body).ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(accountID), gotAccountID)

	channelInfoCount := 0
	for _, f := range frames {
		if f.id == uint16(serial.ServerChannelInfo) {
			channelInfoCount++
		}
	}
	assert.Equal(t, 2, channelInfoCount, "#lobby must be excluded")

	last := frames[len(frames)-1]
	assert.Equal(t, uint16(serial.ServerNotification), last.id)
	assert.Equal(t, "Welcome to bancho!", readPacketString(t, last.body))
}

func TestLoginAlreadyLoggedIn(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/presences", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Presence{{AccountID: 5, Username: "user"}})
	})

	server := newTestServer(t, mux)

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(loginBody))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no", rr.Header().Get("cho-token"))

	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 2)
	assert.Equal(t, uint16(serial.ServerNotification), frames[0].id)
	assert.Equal(t, "Your account is already logged in.",
		readPacketString(t, frames[0].body))
	assert.Equal(t, uint16(serial.ServerAccountID), frames[1].id)

	rejected, err := serial.NewReader(frames[1].body).ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), rejected)
}

func TestLoginBackendRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/presences", func(w http.ResponseWriter, r *http.Request) {
		respondData(w, []models.Presence{})
	})
	mux.HandleFunc("POST /v1/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	server := newTestServer(t, mux)

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader(loginBody))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no", rr.Header().Get("cho-token"))

	frames := readFrames(t, rr.Body.Bytes())
	require.Len(t, frames, 1)
	assert.Equal(t, uint16(serial.ServerAccountID), frames[0].id)
}

func TestLoginMalformedBody(t *testing.T) {
	server := newTestServer(t, http.NewServeMux())

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader("garbage"))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no", rr.Header().Get("cho-token"))
}

func TestProcessTimeHeader(t *testing.T) {
	server := newTestServer(t, http.NewServeMux())

	req := httptest.NewRequest(http.MethodPost, "/v1/login", strings.NewReader("garbage"))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)

	processTime := rr.Header().Get("X-Process-Time")
	require.NotEmpty(t, processTime)

	ms, err := strconv.ParseFloat(processTime, 64)
	require.NoError(t, err)
	assert.Greater(t, ms, 0.0)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
