package redis

import (
	"fmt"
	"strconv"
)

const (
	// KeyPrefix namespaces every key written by the store.
	KeyPrefix = "bgr:"

	keyGameSeq     = KeyPrefix + "games:seq"
	keyAllGames    = KeyPrefix + "games:all"
	keyAllReviews  = KeyPrefix + "reviews:all"
	keyAllUsers    = KeyPrefix + "users:all"
	prefixGame     = KeyPrefix + "game:"
	prefixGameBGG  = KeyPrefix + "game:bgg:"
	prefixGameName = KeyPrefix + "games:name:"
	prefixReview   = KeyPrefix + "review:"
	prefixUser     = KeyPrefix + "user:"
	prefixPayload  = KeyPrefix + "payload:"
)

func gameKey(id int64) string          { return prefixGame + strconv.FormatInt(id, 10) }
func gameBGGKey(bggID string) string   { return prefixGameBGG + bggID }
func gameNameKey(norm string) string   { return prefixGameName + norm }
func reviewKey(id string) string       { return prefixReview + id }
func userKey(id string) string         { return prefixUser + id }
func payloadKey(key string) string     { return prefixPayload + key }
func reviewsByGameKey(id int64) string { return fmt.Sprintf("%sreviews:game:%d", KeyPrefix, id) }

func reviewsByUserGameKey(userID string, gameID int64) string {
	return fmt.Sprintf("%sreviews:user:%s:game:%d", KeyPrefix, userID, gameID)
}
