package redisx

import "fmt"

const ns = "fringe:v1"

func KeyShows() string {
	return ns + ":shows"
}

func KeyShow(showID int64) string {
	return fmt.Sprintf("%s:show:%d", ns, showID)
}

func KeyShowPerformances(showID int64) string {
	return fmt.Sprintf("%s:show:%d:performances", ns, showID)
}

// PatternShowPerformances matches every per-show performance list.
func PatternShowPerformances() string {
	return ns + ":show:*:performances"
}

func KeyPerformance(performanceID int64) string {
	return fmt.Sprintf("%s:performance:%d", ns, performanceID)
}

func KeyVenues() string {
	return ns + ":venues"
}

func KeyLocations() string {
	return ns + ":locations"
}

func KeyTicketTypes() string {
	return ns + ":tickettypes"
}

func KeyDraft(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:draft", ns, sessionID)
}

func KeySelection(sessionID string) string {
	return fmt.Sprintf("%s:session:%s:selection", ns, sessionID)
}

func KeyIdemBooking(sessionID, idemKey string) string {
	return fmt.Sprintf("%s:idem:booking:%s:%s", ns, sessionID, idemKey)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelCatalogChanged() string {
	return ns + ":catalog:changed"
}
