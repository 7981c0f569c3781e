package bus

// RoutingKey returns "channel:chatId", or just the channel when chatId is
// empty.
func RoutingKey(channel Channel, chatId string) string {
	if chatId == "" {
		return string(channel)
	}

	return string(channel) + ":" + chatId
}
