package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/hoshizora/bancho-gateway/internal/config"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

// newTestServer points every backend at one fake, since the services use
// disjoint path prefixes.
func newTestServer(t *testing.T, backend http.Handler) *Server {
	t.Helper()

	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.Services.UsersBaseURL = ts.URL
	cfg.Services.ChatsBaseURL = ts.URL
	cfg.Services.BeatmapsBaseURL = ts.URL
	cfg.Services.ScoresBaseURL = ts.URL

	return NewServer(cfg, prometheus.NewRegistry())
}

// respondData wraps v in the backend "data" envelope.
func respondData(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"data": v})
}

type frame struct {
	id   uint16
	body []byte
}

func readFrames(t *testing.T, data []byte) []frame {
	t.Helper()

	r := serial.NewReader(data)
	var frames []frame
	for r.More() {
		id, body, err := r.ReadPacket()
		require.NoError(t, err)
		frames = append(frames, frame{id: uint16(id), body: body})
	}
	return frames
}

func clientPacket(id serial.ClientPacketID, body []byte) []byte {
	w := serial.NewWriter()
	w.WriteUint16(uint16(id))
	w.WriteUint8(0)
	w.WriteUint32(uint32(len(body)))
	w.WriteBytes(body)
	return w.Bytes()
}

func readPacketString(t *testing.T, body []byte) string {
	t.Helper()

	s, err := serial.NewReader(body).ReadString()
	require.NoError(t, err)
	return s
}
