package tcp

import "encoding/json"

// Request is one newline-delimited inbound frame.
type Request struct {
	Method string          `json:"method"`
	Token  string          `json:"token,omitempty"`
	Body   json.RawMessage `json:"body"`
}

// Base carries the code/message pair every response starts with. Handler
// responses embed it and add their own fields.
type Base struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func ok(message string) Base { return Base{Code: 200, Message: message} }

// errorFrame is the dispatcher-built failure response. Close tells the
// session loop to terminate the connection after flushing the write.
type errorFrame struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Close   bool   `json:"close,omitempty"`
}
