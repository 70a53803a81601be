package ws

const (
	// server - client
	MsgReady = "ready"
	MsgError = "error"
)

type readyPayload struct {
	Type   string `json:"type"`
	UserID int64  `json:"userId"`
}
