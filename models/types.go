package models

import (
	"encoding/json"
	"time"
)

// Proposal status constants
const (
	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// IsValidStatus reports whether status is one the API accepts.
func IsValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusSent, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Request types

type CreateClientRequest struct {
	Name string `json:"name"`
}

type CreateProposalRequest struct {
	Name string `json:"name"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Value is a JSON string for text steps or a JSON array of strings for
// multi-select steps. See DecodeValue.
type SetAnswerRequest struct {
	Value json.RawMessage `json:"value"`
}

type ToggleOptionRequest struct {
	Option string `json:"option"`
}

// Response types

type ShareLinkResponse struct {
	ShareToken string `json:"share_token"`
	ShareURL   string `json:"share_url"`
}

type ClientWithProposals struct {
	Client    Client     `json:"client"`
	Proposals []Proposal `json:"proposals"`
}

// ProposalDetail is a proposal with its saved answers; Answers is nil when
// nothing has been saved.
type ProposalDetail struct {
	Proposal Proposal  `json:"proposal"`
	Answers  *Document `json:"answers"`
}

type ListClientsResponse struct {
	Clients []Client `json:"clients"`
}

// Domain types

type Client struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
}

type Proposal struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	UserID     string    `json:"-"` // Owner, never exposed
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ShareToken *string   `json:"share_token,omitempty"`
}

// Share snapshot types

// SharedProposal is the public view of a proposal resolved from its share token.
// Answers is nil when no answer document has been saved yet.
type SharedProposal struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	ShareToken string    `json:"share_token"`
	Answers    *Document `json:"answers"`
}

type ShareResponse struct {
	Proposal SharedProposal `json:"proposal"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
