package domain

import "time"

// ImportSession is the audit record of one statement import.
//
// Retention, checked on every import: at most the two most recent
// non-deleted sessions are kept (older ones are soft-deleted) and any
// session older than thirty days is hard-deleted.
type ImportSession struct {
	SessionID        string    `json:"sessionID"`
	ImportedAt       time.Time `json:"importedAt"`
	FileName         string    `json:"fileName"`
	TransactionCount int       `json:"transactionCount"`
	SuggestionCount  int       `json:"suggestionCount"`
	TemplatesCreated int       `json:"templatesCreated"`
	DuplicatesFound  int       `json:"duplicatesFound"`
	IsDeleted        bool      `json:"isDeleted"`
}

// SessionRetentionKeep is how many non-deleted sessions survive an import.
const SessionRetentionKeep = 2

// SessionRetentionMaxAge is the hard-delete cutoff for old sessions.
const SessionRetentionMaxAge = 30 * 24 * time.Hour
