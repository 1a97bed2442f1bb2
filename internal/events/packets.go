package events

import (
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/serial"
)

// clientPrivileges maps server-side privileges to the low byte the client
// understands.
func clientPrivileges(privileges int32) uint8 {
	return uint8(privileges & 0xFF)
}

// UserPresencePacket renders a live presence as a USER_PRESENCE packet.
func UserPresencePacket(presence *models.Presence, globalRank int32) []byte {
	return serial.WriteUserPresencePacket(serial.UserPresence{
		AccountID:        int32(presence.AccountID),
		Username:         presence.Username,
		UTCOffset:        int8(presence.UTCOffset),
		CountryCode:      presence.CountryCode,
		BanchoPrivileges: clientPrivileges(presence.Privileges),
		Mode:             presence.GameMode,
		Latitude:         presence.Latitude,
		Longitude:        presence.Longitude,
		GlobalRank:       globalRank,
	})
}

// UserStatsPacket renders a presence and its stats as a USER_STATS packet.
func UserStatsPacket(presence *models.Presence, stats *models.Stats, globalRank int32) []byte {
	return serial.WriteUserStatsPacket(serial.UserStats{
		AccountID:   int32(presence.AccountID),
		Action:      presence.Action,
		InfoText:    presence.InfoText,
		MapMD5:      presence.MapMD5,
		Mods:        int32(presence.Mods),
		Mode:        presence.GameMode,
		MapID:       presence.MapID,
		RankedScore: stats.RankedScore,
		Accuracy:    stats.Accuracy,
		PlayCount:   stats.PlayCount,
		TotalScore:  stats.TotalScore,
		GlobalRank:  globalRank,
		Performance: stats.Performance,
	})
}
