package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hoshizora/bancho-gateway/internal/logging"
	"github.com/hoshizora/bancho-gateway/internal/models"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

const (
	leaderboardSize     = 50
	personalBestRank    = 12345
	getScoresFailedBody = "-1|false"
)

// banchoRankedStatus maps osu!api ranked statuses onto the values the
// in-game leaderboard understands.
var banchoRankedStatus = map[int]int{
	models.RankedStatusGraveyard:      0,
	models.RankedStatusWorkInProgress: 0,
	models.RankedStatusPending:        0,
	models.RankedStatusRanked:         2,
	models.RankedStatusApproved:       3,
	models.RankedStatusQualified:      4,
	models.RankedStatusLoved:          5,
}

func gameModeString(mode int) string {
	switch mode {
	case 1:
		return "taiko"
	case 2:
		return "fruits"
	case 3:
		return "mania"
	default:
		return "osu"
	}
}

// mapFilename reconstructs the .osu filename the client knows a difficulty
// by.
func mapFilename(artist, title, mapperName, version string) string {
	return fmt.Sprintf("%s - %s (%s) [%s].osu", artist, title, mapperName, version)
}

// handleGetScores serves the in-game leaderboard as the legacy
// pipe-delimited text format.
func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	query := r.URL.Query()

	w.Header().Set("Content-Type", "text/plain")

	username := query.Get("us")
	beatmapMD5 := query.Get("c")
	mapFileName := query.Get("f")

	mode, err := strconv.Atoi(query.Get("m"))
	if err != nil || mode < 0 || mode > 3 {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	setID, err := strconv.Atoi(query.Get("i"))
	if err != nil || setID < -1 {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	if len(beatmapMD5) != 32 {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	leaderboardType, err := strconv.Atoi(query.Get("v"))
	if err != nil || leaderboardType < 0 || leaderboardType > 4 {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	if mods, err := strconv.Atoi(query.Get("mods")); err != nil || mods < 0 {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	if editor := query.Get("s"); editor != "0" && editor != "1" {
		io.WriteString(w, getScoresFailedBody)
		return
	}
	if aqn := query.Get("a"); aqn != "0" && aqn != "1" {
		io.WriteString(w, getScoresFailedBody)
		return
	}

	if setID == -1 {
		logger.Warn("leaderboard request without a set id", "md5", beatmapMD5)
		io.WriteString(w, getScoresFailedBody)
		return
	}

	beatmapset, err := s.clients.Beatmaps.GetBeatmapset(ctx, setID)
	if err != nil {
		logger.Warn("unknown beatmapset", "set_id", setID, "error", err)
		io.WriteString(w, getScoresFailedBody)
		return
	}

	modeName := gameModeString(mode)

	beatmaps, err := s.clients.Beatmaps.GetBeatmaps(ctx, services.BeatmapFilters{
		MD5Hash:  beatmapMD5,
		Mode:     modeName,
		PageSize: 1,
	})
	if err != nil {
		logger.Error("failed to fetch beatmaps", "md5", beatmapMD5, "error", err)
		io.WriteString(w, getScoresFailedBody)
		return
	}

	if len(beatmaps) == 0 {
		// The hash is unknown; if the filename matches a difficulty in the
		// set the client just has a stale copy, otherwise the map itself is
		// unknown.
		setBeatmaps, err := s.clients.Beatmaps.GetBeatmaps(ctx, services.BeatmapFilters{
			SetID: beatmapset.BeatmapsetID,
		})
		if err != nil {
			logger.Error("failed to fetch set beatmaps",
				"set_id", beatmapset.BeatmapsetID, "error", err)
			io.WriteString(w, getScoresFailedBody)
			return
		}
		for _, beatmap := range setBeatmaps {
			filename := mapFilename(beatmapset.Artist, beatmapset.Title,
				beatmapset.MapperName, beatmap.Version)
			if mapFileName == filename {
				io.WriteString(w, "1|false")
				return
			}
		}
		io.WriteString(w, getScoresFailedBody)
		return
	}
	beatmap := beatmaps[0]

	scores, err := s.clients.Scores.GetScores(ctx, services.ScoreFilters{
		BeatmapMD5: beatmapMD5,
		Mode:       modeName,
		Passed:     true,
		PageSize:   leaderboardSize,
	})
	if err != nil {
		logger.Error("failed to fetch scores", "md5", beatmapMD5, "error", err)
		io.WriteString(w, getScoresFailedBody)
		return
	}

	personalBest, err := s.personalBest(ctx, username, beatmapMD5, modeName)
	if err != nil {
		io.WriteString(w, getScoresFailedBody)
		return
	}

	writeLeaderboard(w, &beatmap, beatmapset, scores, personalBest)
}

// personalBest resolves the requesting player's best pass via their online
// presence. An offline or scoreless player simply has none.
func (s *Server) personalBest(ctx context.Context, username, beatmapMD5, modeName string) (*models.Score, error) {
	presences, err := s.clients.Users.GetAllPresences(ctx,
		services.PresenceFilters{Username: username})
	if err != nil {
		return nil, err
	}
	if len(presences) != 1 {
		return nil, nil
	}

	own, err := s.clients.Scores.GetScores(ctx, services.ScoreFilters{
		BeatmapMD5: beatmapMD5,
		AccountID:  presences[0].AccountID,
		Mode:       modeName,
		Passed:     true,
		PageSize:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return nil, nil
	}
	return &own[0], nil
}

func writeLeaderboard(w io.Writer, beatmap *models.Beatmap, beatmapset *models.Beatmapset, scores []models.Score, personalBest *models.Score) {
	fmt.Fprintf(w, "%d|0|%d|%d|%d|0|\n",
		banchoRankedStatus[beatmap.RankedStatus],
		beatmap.BeatmapID, beatmap.SetID, len(scores))

	// Offset and rating are fixed until the services provide them. The '|'
	// in the display name becomes '\n' client-side.
	fmt.Fprintf(w, "0\n%s - %s [%s]\n10.0\n",
		beatmapset.Artist, beatmapset.Title, beatmap.Version)

	if personalBest != nil {
		writeLeaderboardScore(w, personalBest, personalBestRank)
	} else {
		io.WriteString(w, "\n")
	}

	for i := range scores {
		writeLeaderboardScore(w, &scores[i], i+1)
	}
}

func writeLeaderboardScore(w io.Writer, score *models.Score, rank int) {
	perfect := "0"
	if score.Perfect {
		perfect = "1"
	}
	fmt.Fprintf(w, "%d|%s|%d|%d|%d|%d|%d|%d|%d|%d|%s|%d|%d|%d|%d|1\n",
		score.ScoreID, score.Username, score.Score, score.MaxCombo,
		score.Count50s, score.Count100s, score.Count300s, score.CountMisses,
		score.CountKatus, score.CountGekis, perfect, score.Mods,
		score.AccountID, rank, score.CreatedAt.Unix())
}
