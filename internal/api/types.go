package api

import "github.com/siagacall/relay/internal/websocket"

// CallListResponse lists the currently open call connections
type CallListResponse struct {
	Calls []websocket.CallInfo `json:"calls"`
}

// TakeoverRequest toggles the human-takeover flag for a call
type TakeoverRequest struct {
	Takeover bool `json:"takeover"`
}

// TakeoverResponse confirms the applied takeover state
type TakeoverResponse struct {
	ConnectionID string `json:"connection_id"`
	Takeover     bool   `json:"takeover"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
