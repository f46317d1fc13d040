package domain

// VerificationJob is one screenshot submission awaiting processing.
// It is owned exclusively by the worker from enqueue to completion.
type VerificationJob struct {
	JobID       string
	SubmitterID string
	DisplayName string
	GuildID     string
	Image       []byte
}

// Outcome is the structured message emitted to the notification sink.
// The sink owns all user-facing rendering and role side effects.
type Outcome struct {
	Success        bool    `json:"success"`
	SubmitterID    string  `json:"submitter_id"`
	GuildID        string  `json:"guild_id"`
	Project        Project `json:"project"`
	Score          string  `json:"score,omitempty"`
	Tier           string  `json:"tier,omitempty"`
	HandleMismatch string  `json:"handle_mismatch,omitempty"`
	LinkedUsername string  `json:"linked_username,omitempty"`
	LinkedVerified bool    `json:"linked_verified,omitempty"`
}

// HistoryEntry is one append-only audit record of a verification attempt.
type HistoryEntry struct {
	EntryID     string  `json:"entry_id" dynamodbav:"entry_id"`
	UserID      string  `json:"user_id" dynamodbav:"user_id"`
	DisplayName string  `json:"display_name" dynamodbav:"display_name"`
	GuildID     string  `json:"guild_id" dynamodbav:"guild_id"`
	Project     Project `json:"project" dynamodbav:"project"`
	Score       string  `json:"score" dynamodbav:"score"`
	Tier        string  `json:"tier" dynamodbav:"tier"`
	Timestamp   int64   `json:"timestamp" dynamodbav:"timestamp"`
}
