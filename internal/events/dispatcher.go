// Package events routes decoded client packets to their handlers and
// translates each into backend service calls.
package events

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/monitoring"
	"github.com/hoshizora/bancho-gateway/internal/serial"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

// Handler processes one packet body and returns packet bytes for the
// immediate response. Data addressed to other players goes through their
// queues instead.
type Handler func(ctx context.Context, session *models.Session, data []byte) ([]byte, error)

// Dispatcher owns the packet id to handler table.
type Dispatcher struct {
	clients  *services.Clients
	metrics  *monitoring.Metrics
	handlers map[serial.ClientPacketID]Handler
}

func NewDispatcher(clients *services.Clients, metrics *monitoring.Metrics) *Dispatcher {
	d := &Dispatcher{
		clients: clients,
		metrics: metrics,
	}
	d.handlers = map[serial.ClientPacketID]Handler{
		serial.ClientPing:                 d.handlePing,
		serial.ClientLogout:               d.handleLogout,
		serial.ClientRequestSelfStats:     d.handleRequestSelfStats,
		serial.ClientRequestAllUserStats:  d.handleRequestAllUserStats,
		serial.ClientChangeAction:         d.handleChangeAction,
		serial.ClientUpdatePresenceFilter: d.handleUpdatePresenceFilter,
		serial.ClientSendPublicMessage:    d.handleSendPublicMessage,
		serial.ClientChannelJoin:          d.handleChannelJoin,
		serial.ClientChannelPart:          d.handleChannelPart,
		serial.ClientStartSpectating:      d.handleStartSpectating,
		serial.ClientStopSpectating:       d.handleStopSpectating,
		serial.ClientSpectateFrames:       d.handleSpectateFrames,
	}
	return d
}

// Dispatch routes a single packet. Packets without a handler get a
// notification back so they stand out during client testing; LOGOUT is the
// exception since the client may resend it after the session is gone.
func (d *Dispatcher) Dispatch(ctx context.Context, session *models.Session, id serial.ClientPacketID, data []byte) []byte {
	logger := logging.FromContext(ctx)

	handler, ok := d.handlers[id]
	if !ok {
		d.metrics.UnhandledPackets.Inc()
		logger.Warn("unhandled packet", "type", id.String())

		if id == serial.ClientLogout {
			return nil
		}
		return serial.WriteNotificationPacket(
			fmt.Sprintf("[Unhandled Packet] %s (%d)", id, uint16(id)))
	}

	d.metrics.PacketsHandled.WithLabelValues(id.String()).Inc()
	logger.Info("handling packet", "type", id.String(), "length", len(data))

	response, err := handler(ctx, session, data)
	if err != nil {
		logger.Error("packet handler failed", "type", id.String(), "error", err)
		return nil
	}
	return response
}

// Run decodes frames from a request body and dispatches each in order. A
// malformed frame stops the loop; responses produced so far are kept.
func (d *Dispatcher) Run(ctx context.Context, session *models.Session, body []byte) []byte {
	reader := serial.NewReader(body)

	var buf bytes.Buffer
	for reader.More() {
		id, data, err := reader.ReadPacket()
		if err != nil {
			logging.FromContext(ctx).Warn("malformed packet frame", "error", err)
			break
		}
		buf.Write(d.Dispatch(ctx, session, id, data))
	}
	return buf.Bytes()
}

func ptr[T any](v T) *T {
	return &v
}
