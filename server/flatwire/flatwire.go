package flatwire

import "github.com/tuannm99/flatdb/internal/sql/executor"

// ExecuteRequest is a single query request.
type ExecuteRequest struct {
	ID    uint64 `json:"id"`
	Query string `json:"query"`
}

// ExecuteResponse is the response for a request ID.
type ExecuteResponse struct {
	ID     uint64           `json:"id"`
	Result *executor.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}
