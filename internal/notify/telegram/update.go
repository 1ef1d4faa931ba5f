package telegram

// Update is the subset of a Telegram webhook update this service consumes:
// text commands and photo messages.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message carries the chat identity plus either text or photo sizes.
type Message struct {
	MessageID int64       `json:"message_id"`
	Chat      Chat        `json:"chat"`
	Text      string      `json:"text"`
	Photo     []PhotoSize `json:"photo"`
}

// Chat identifies the conversation; its ID is the recipient identity.
type Chat struct {
	ID int64 `json:"id"`
}

// PhotoSize is one resolution variant of a photo message. Telegram orders
// them smallest first.
type PhotoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// LargestPhoto returns the file id of the highest-resolution variant, or
// empty when the message has no photo.
func (m *Message) LargestPhoto() string {
	if m == nil || len(m.Photo) == 0 {
		return ""
	}
	return m.Photo[len(m.Photo)-1].FileID
}
