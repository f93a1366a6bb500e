package models

// Chunk types carried in the `type` field of streamed chat chunks.
// Complete and Error are terminal: the stream ends after yielding them.
const (
	ChunkTypeToken    = "token"
	ChunkTypeComplete = "complete"
	ChunkTypeError    = "error"
)

// ChatChunk is one `data:` line of the chat event stream.
type ChatChunk struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Terminal reports whether this chunk ends the stream.
func (c *ChatChunk) Terminal() bool {
	return c.Type == ChunkTypeComplete || c.Type == ChunkTypeError
}

// StatusMessage is one JSON text frame of the per-session status socket.
type StatusMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
