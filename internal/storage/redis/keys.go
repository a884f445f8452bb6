package redis

import "fmt"

// Key prefix for all dashboard data
const keyPrefix = "bloxpanel"

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// chatLogKey returns the Redis key for the chat-log list
func chatLogKey() string {
	return fmt.Sprintf("%s:chatlogs", keyPrefix)
}
