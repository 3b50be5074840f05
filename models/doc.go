// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateClientRequest: name
  - CreateProposalRequest: name
  - UpdateStatusRequest: status
  - SetAnswerRequest: value (string or list of strings)
  - ToggleOptionRequest: option

# Response Types

  - ShareLinkResponse: share_token, share_url
  - ClientWithProposals: client, proposals
  - ShareResponse: proposal (public snapshot)
  - ErrorResponse: error, message

# Answer Documents

A Document maps question keys to typed answers:

	doc := models.Document{
		"businessName": models.Text("Acme"),
		"services":     models.NewSelection("SEO", "Design"),
	}

Text covers text and long-text questions; Selection covers multi-select
questions and never holds duplicates. Absent keys are unanswered. An emptied
selection encodes as [] rather than disappearing.

# Errors

ErrNotFound, ErrUnauthorized, ErrStore, and ErrValidation classify failures
across packages. Wrap them with fmt.Errorf and test with errors.Is.

# Constants

Proposal status values:

	StatusDraft    = "draft"
	StatusSent     = "sent"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
*/
package models
