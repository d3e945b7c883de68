package models

type BotEventType string

const (
	// BotEventStart is emitted when a user opens a session with the bot.
	BotEventStart BotEventType = "start"
	// BotEventAdd carries a fully collected manual product entry.
	BotEventAdd BotEventType = "add"
)

// BotEvent is an inbound chat event, normalized across bot adapters.
type BotEvent struct {
	Type    BotEventType `json:"type"`
	ChatID  string       `json:"chat_id"`
	Product *Product     `json:"product,omitempty"`
}

// BotReply is the optional reply text a handler returns for an event.
type BotReply struct {
	Message string `json:"message"`
}
