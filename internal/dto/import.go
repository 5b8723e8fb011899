package dto

import (
	"time"

	"github.com/planday-app/organizer_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ImportStatementRequest carries one raw statement export. FileName is used
// only for the audit session, never for parsing.
type ImportStatementRequest struct {
	FileName string `json:"fileName" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// SuggestionResponse is one inferred recurring-payment candidate.
type SuggestionResponse struct {
	Merchant        string           `json:"merchant"`
	Amount          decimal.Decimal  `json:"amount"`
	SuggestedAmount decimal.Decimal  `json:"suggestedAmount"`
	Frequency       domain.Frequency `json:"frequency"`
	OccurrenceDates []time.Time      `json:"occurrenceDates"`
	Categories      []string         `json:"categories"`
	Confidence      float64          `json:"confidence"`
}

// ImportResult summarizes one completed import.
type ImportResult struct {
	SessionID        string               `json:"sessionID"`
	FileName         string               `json:"fileName"`
	TransactionCount int                  `json:"transactionCount"`
	SkippedRows      int                  `json:"skippedRows"`
	DuplicatesFound  int                  `json:"duplicatesFound"`
	Suggestions      []SuggestionResponse `json:"suggestions"`
}

// ImportSessionResponse is one audit history entry.
type ImportSessionResponse struct {
	SessionID        string    `json:"sessionID"`
	ImportedAt       time.Time `json:"importedAt"`
	FileName         string    `json:"fileName"`
	TransactionCount int       `json:"transactionCount"`
	SuggestionCount  int       `json:"suggestionCount"`
	TemplatesCreated int       `json:"templatesCreated"`
	DuplicatesFound  int       `json:"duplicatesFound"`
}

// ToSuggestionResponse converts a domain suggestion to its DTO.
func ToSuggestionResponse(s domain.TemplateSuggestion) SuggestionResponse {
	return SuggestionResponse{
		Merchant:        s.Merchant,
		Amount:          s.Amount,
		SuggestedAmount: s.SuggestedAmount,
		Frequency:       s.Frequency,
		OccurrenceDates: s.OccurrenceDates,
		Categories:      s.Categories,
		Confidence:      s.Confidence,
	}
}

// ToImportSessionResponse converts a domain session to its DTO.
func ToImportSessionResponse(s domain.ImportSession) ImportSessionResponse {
	return ImportSessionResponse{
		SessionID:        s.SessionID,
		ImportedAt:       s.ImportedAt,
		FileName:         s.FileName,
		TransactionCount: s.TransactionCount,
		SuggestionCount:  s.SuggestionCount,
		TemplatesCreated: s.TemplatesCreated,
		DuplicatesFound:  s.DuplicatesFound,
	}
}
