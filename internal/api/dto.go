// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

// RootResponse identifies the service and the active similarity strategy.
type RootResponse struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

// FeedbackRequest is the POST /feedback body. Email is optional contact
// information; only Message is validated.
type FeedbackRequest struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
}

// FeedbackResponse acknowledges a feedback submission. Nothing is stored;
// OK is false only when the message is empty after trimming.
type FeedbackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// HealthResponse reports liveness and the immutable dataset statistics.
type HealthResponse struct {
	Status        string  `json:"status"`
	Strategy      string  `json:"strategy"`
	Movies        int     `json:"movies"`
	Genres        int     `json:"genres"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
