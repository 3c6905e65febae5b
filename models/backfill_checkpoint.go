package models

import (
	"time"
)

type BackfillCheckpointStatus string

const (
	BackfillCheckpointStatusInProgress BackfillCheckpointStatus = "in_progress"
	BackfillCheckpointStatusCompleted  BackfillCheckpointStatus = "completed"
	BackfillCheckpointStatusFailed     BackfillCheckpointStatus = "failed"
)

// BackfillCheckpoint records per-channel reconciliation progress so a restart
// resumes the history walk after the last fully processed message.
type BackfillCheckpoint struct {
	ID            string                   `db:"id"              json:"id"`
	GuildID       string                   `db:"guild_id"        json:"guild_id"`
	ChannelID     string                   `db:"channel_id"      json:"channel_id"`
	LastMessageID string                   `db:"last_message_id" json:"last_message_id"`
	Status        BackfillCheckpointStatus `db:"status"          json:"status"`
	CreatedAt     time.Time                `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time                `db:"updated_at"      json:"updated_at"`
}
