package serial

// ReservedByte sits between the packet id and the length in every frame.
// Writers always emit zero; readers accept anything.
const ReservedByte = 0x00

// WritePacket frames a packet body:
// u16 packet_id | u8 reserved(=0) | u32 length | body.
func WritePacket(id ServerPacketID, data []byte) []byte {
	w := NewWriter()
	w.WriteUint16(uint16(id))
	w.WriteUint8(ReservedByte)
	w.WriteUint32(uint32(len(data)))
	w.WriteBytes(data)
	return w.Bytes()
}

// ReadPacket consumes one frame from the reader, returning its id and body.
func (r *Reader) ReadPacket() (ClientPacketID, []byte, error) {
	id, err := r.ReadUint16()
	if err != nil {
		return 0, nil, err
	}
	if _, err := r.ReadUint8(); err != nil { // reserved byte, any value
		return 0, nil, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return 0, nil, err
	}
	data, err := r.ReadBytes(int(length))
	if err != nil {
		return 0, nil, err
	}
	return ClientPacketID(id), data, nil
}

// UserStats is the USER_STATS packet body. Accuracy is the percentage in
// [0, 100]; it is divided by 100 on the wire, never before.
type UserStats struct {
	AccountID   int32
	Action      uint8
	InfoText    string
	MapMD5      string
	Mods        int32
	Mode        uint8
	MapID       int32
	RankedScore int64
	Accuracy    float32
	PlayCount   int32
	TotalScore  int64
	GlobalRank  int32
	Performance int16
}

func WriteUserStatsPacket(s UserStats) []byte {
	w := NewWriter()
	w.WriteInt32(s.AccountID)
	w.WriteUint8(s.Action)
	w.WriteString(s.InfoText)
	w.WriteString(s.MapMD5)
	w.WriteInt32(s.Mods)
	w.WriteUint8(s.Mode)
	w.WriteInt32(s.MapID)
	w.WriteInt64(s.RankedScore)
	w.WriteFloat32(s.Accuracy / 100)
	w.WriteInt32(s.PlayCount)
	w.WriteInt64(s.TotalScore)
	w.WriteInt32(s.GlobalRank)
	w.WriteInt16(s.Performance)
	return WritePacket(ServerUserStats, w.Bytes())
}

// UserPresence is the USER_PRESENCE packet body.
type UserPresence struct {
	AccountID        int32
	Username         string
	UTCOffset        int8
	CountryCode      uint8
	BanchoPrivileges uint8
	Mode             uint8
	Latitude         float32
	Longitude        float32
	GlobalRank       int32
}

func WriteUserPresencePacket(p UserPresence) []byte {
	w := NewWriter()
	w.WriteInt32(p.AccountID)
	w.WriteString(p.Username)
	w.WriteUint8(uint8(int(p.UTCOffset) + 24))
	w.WriteUint8(p.CountryCode)
	w.WriteUint8(p.BanchoPrivileges | (p.Mode << 5))
	w.WriteFloat32(p.Latitude)
	w.WriteFloat32(p.Longitude)
	w.WriteInt32(p.GlobalRank)
	return WritePacket(ServerUserPresence, w.Bytes())
}

func WriteAccountIDPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	return WritePacket(ServerAccountID, w.Bytes())
}

func WriteProtocolVersionPacket(version int32) []byte {
	w := NewWriter()
	w.WriteInt32(version)
	return WritePacket(ServerProtocolVersion, w.Bytes())
}

func WritePrivilegesPacket(privileges int32) []byte {
	w := NewWriter()
	w.WriteInt32(privileges)
	return WritePacket(ServerPrivileges, w.Bytes())
}

func WriteSilenceEndPacket(remainingSec int32) []byte {
	w := NewWriter()
	w.WriteInt32(remainingSec)
	return WritePacket(ServerSilenceEnd, w.Bytes())
}

func WritePongPacket() []byte {
	return WritePacket(ServerPong, nil)
}

func WriteNotificationPacket(message string) []byte {
	w := NewWriter()
	w.WriteString(message)
	return WritePacket(ServerNotification, w.Bytes())
}

func WriteRestartPacket(msUntilRestart int32) []byte {
	w := NewWriter()
	w.WriteInt32(msUntilRestart)
	return WritePacket(ServerRestart, w.Bytes())
}

func WriteSendMessagePacket(sender, message, recipient string, senderID int32) []byte {
	w := NewWriter()
	w.WriteString(sender)
	w.WriteString(message)
	w.WriteString(recipient)
	w.WriteInt32(senderID)
	return WritePacket(ServerSendMessage, w.Bytes())
}

func WriteChannelInfoPacket(channel, topic string, userCount uint16) []byte {
	w := NewWriter()
	w.WriteString(channel)
	w.WriteString(topic)
	w.WriteUint16(userCount)
	return WritePacket(ServerChannelInfo, w.Bytes())
}

func WriteChannelInfoEndPacket() []byte {
	return WritePacket(ServerChannelInfoEnd, nil)
}

func WriteChannelJoinSuccessPacket(channel string) []byte {
	w := NewWriter()
	w.WriteString(channel)
	return WritePacket(ServerChannelJoinSuccess, w.Bytes())
}

// WriteMainMenuIconPacket joins the two URLs with a pipe into a single string.
func WriteMainMenuIconPacket(iconURL, onClickURL string) []byte {
	w := NewWriter()
	w.WriteString(iconURL + "|" + onClickURL)
	return WritePacket(ServerMainMenuIcon, w.Bytes())
}

func WriteFriendsListPacket(friends []int32) []byte {
	w := NewWriter()
	w.WriteUint16(uint16(len(friends)))
	for _, friend := range friends {
		w.WriteUint32(uint32(friend))
	}
	return WritePacket(ServerFriendsList, w.Bytes())
}

func WriteUserLogoutPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	w.WriteUint8(0)
	return WritePacket(ServerUserLogout, w.Bytes())
}

func WriteSpectatorJoinedPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	return WritePacket(ServerSpectatorJoined, w.Bytes())
}

func WriteSpectatorLeftPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	return WritePacket(ServerSpectatorLeft, w.Bytes())
}

func WriteFellowSpectatorJoinedPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	return WritePacket(ServerFellowSpectatorJoined, w.Bytes())
}

func WriteFellowSpectatorLeftPacket(accountID int32) []byte {
	w := NewWriter()
	w.WriteInt32(accountID)
	return WritePacket(ServerFellowSpectatorLeft, w.Bytes())
}

// WriteSpectateFramesPacket relays a frame bundle verbatim; the gateway does
// not interpret the body.
func WriteSpectateFramesPacket(frames []byte) []byte {
	return WritePacket(ServerSpectateFrames, frames)
}
