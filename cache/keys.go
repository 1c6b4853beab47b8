package cache

import "fmt"

func StatsKey(ownerID string) string {
	return fmt.Sprintf("user_stats:%s", ownerID)
}

// ResponseKey identifies a cached GET response for one owner.
func ResponseKey(ownerID, path, rawQuery string) string {
	return fmt.Sprintf("cache:%s:%s?%s", ownerID, path, rawQuery)
}

func ResponsePattern(ownerID, pathPrefix string) string {
	return fmt.Sprintf("cache:%s:%s*", ownerID, pathPrefix)
}

func RateLimitKey(clientIP string) string {
	return fmt.Sprintf("rate_limit:%s", clientIP)
}
