package serial

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePacketLayout(t *testing.T) {
	body := []byte{0x01, 0x02, 0x03}
	packet := WritePacket(ServerNotification, body)

	require.Len(t, packet, 7+len(body))
	assert.Equal(t, uint16(ServerNotification), binary.LittleEndian.Uint16(packet[0:2]))
	assert.Equal(t, byte(0x00), packet[2])
	assert.Equal(t, uint32(len(body)), binary.LittleEndian.Uint32(packet[3:7]))
	assert.Equal(t, body, packet[7:])
}

func TestWritePacketEmptyBody(t *testing.T) {
	packet := WritePacket(ServerChannelInfoEnd, nil)
	require.Len(t, packet, 7)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(packet[3:7]))
}

func TestReadPacketRoundTrip(t *testing.T) {
	body := []byte("payload")
	packet := WritePacket(ServerPacketID(ClientChangeAction), body)

	r := NewReader(packet)
	id, data, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, ClientChangeAction, id)
	assert.Equal(t, body, data)
	assert.False(t, r.More())
}

func TestReadPacketToleratesReservedByte(t *testing.T) {
	w := NewWriter()
	w.WriteUint16(uint16(ClientPing))
	w.WriteUint8(0xFF)
	w.WriteUint32(0)

	r := NewReader(w.Bytes())
	id, data, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, ClientPing, id)
	assert.Empty(t, data)
}

func TestReadPacketTruncatedBody(t *testing.T) {
	w := NewWriter()
	w.WriteUint16(uint16(ClientPing))
	w.WriteUint8(0)
	w.WriteUint32(10)
	w.WriteBytes([]byte{0x01})

	r := NewReader(w.Bytes())
	_, _, err := r.ReadPacket()
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestUserStatsAccuracyScaledOnce(t *testing.T) {
	packet := WriteUserStatsPacket(UserStats{
		AccountID: 5,
		Accuracy:  98.76,
	})

	r := NewReader(packet)
	id, body, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, uint16(ServerUserStats), uint16(id))

	br := NewReader(body)
	accountID, err := br.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(5), accountID)

	_, err = br.ReadUint8() // action
	require.NoError(t, err)
	_, err = br.ReadString() // info text
	require.NoError(t, err)
	_, err = br.ReadString() // map md5
	require.NoError(t, err)
	_, err = br.ReadInt32() // mods
	require.NoError(t, err)
	_, err = br.ReadUint8() // mode
	require.NoError(t, err)
	_, err = br.ReadInt32() // map id
	require.NoError(t, err)
	_, err = br.ReadInt64() // ranked score
	require.NoError(t, err)

	accuracy, err := br.ReadFloat32()
	require.NoError(t, err)
	assert.InDelta(t, 0.9876, accuracy, 1e-6)
}

func TestUserPresencePacksModeIntoPrivileges(t *testing.T) {
	packet := WriteUserPresencePacket(UserPresence{
		AccountID:        7,
		Username:         "player",
		UTCOffset:        -5,
		CountryCode:      38,
		BanchoPrivileges: 0x1F,
		Mode:             3,
	})

	r := NewReader(packet)
	_, body, err := r.ReadPacket()
	require.NoError(t, err)

	br := NewReader(body)
	_, err = br.ReadInt32() // account id
	require.NoError(t, err)
	username, err := br.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "player", username)

	utcOffset, err := br.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(19), utcOffset) // -5 + 24

	_, err = br.ReadUint8() // country
	require.NoError(t, err)

	packed, err := br.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x1F|3<<5), packed)
}

func TestPacketNames(t *testing.T) {
	assert.Equal(t, "PING", ClientPing.String())
	assert.Equal(t, "CHANGE_ACTION", ClientChangeAction.String())
	assert.Equal(t, "Unknown", ClientPacketID(9999).String())
	assert.Equal(t, "NOTIFICATION", ServerNotification.String())
}
