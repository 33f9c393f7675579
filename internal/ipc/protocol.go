// Package ipc implements the control-socket protocol external CLIs use to
// talk to a running daemon: a JSON-line-over-unix-socket Request/Response
// envelope. A layout-catalog command set (GET_MONITORS, PREVIEW_LAYOUT,
// LIST_LAYOUTS, APPLY_LAYOUT, SET_DEFAULT_LAYOUT, UNDO) has no counterpart
// in a tiling tree with no named-layout catalog, so the protocol is pared
// to three commands: reload, status, exit.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType identifies an IPC command.
type CommandType string

const (
	CommandReload CommandType = "RELOAD"
	CommandStatus CommandType = "STATUS"
	CommandExit   CommandType = "EXIT"
)

// Request represents an IPC request from client to server. None of
// tilewm's three commands carry a payload today, but the field is kept so
// a future command can add one without changing the envelope shape.
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client.
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// DisplayStatusData is the wire form of orchestrator.DisplayStatus.
type DisplayStatusData struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	ActiveWorkspace int    `json:"active_workspace"`
	WindowCount     int    `json:"window_count"`
}

// StatusData is the data returned by the STATUS command.
type StatusData struct {
	Displays      []DisplayStatusData `json:"displays"`
	UptimeSeconds int64                `json:"uptime_seconds"`
	DaemonRunning bool                 `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data.
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message.
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
