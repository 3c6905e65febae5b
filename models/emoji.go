package models

type EmojiKind string

const (
	EmojiKindUnicode EmojiKind = "unicode"
	EmojiKindCustom  EmojiKind = "custom"
)

// Emoji is the discriminated union of a plain unicode emoji and a
// guild-specific custom emoji. CustomID is empty exactly when Kind is unicode.
type Emoji struct {
	Kind     EmojiKind `json:"kind"`
	Name     string    `json:"name"`
	CustomID string    `json:"custom_id,omitempty"`
}

// UnicodeEmoji builds the unicode variant of the union.
func UnicodeEmoji(value string) Emoji {
	return Emoji{Kind: EmojiKindUnicode, Name: value}
}

// CustomEmoji builds the custom variant of the union.
func CustomEmoji(name, customID string) Emoji {
	return Emoji{Kind: EmojiKindCustom, Name: name, CustomID: customID}
}

// String renders the emoji the way the chat platform displays it.
func (e Emoji) String() string {
	if e.Kind == EmojiKindCustom {
		return "<:" + e.Name + ":" + e.CustomID + ">"
	}
	return e.Name
}

// APIName renders the emoji in the identifier format the platform history API
// expects when listing reaction users.
func (e Emoji) APIName() string {
	if e.Kind == EmojiKindCustom {
		return e.Name + ":" + e.CustomID
	}
	return e.Name
}
