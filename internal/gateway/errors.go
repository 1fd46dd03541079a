package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RemoteError is a failure the backend reported itself: a non-2xx status,
// usually with a {"message": ...} body. Anything else (DNS, timeout, bad
// JSON) surfaces as a plain wrapped error and is treated as a transport
// failure by callers.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// decodeRemoteError drains and closes the response body.
func decodeRemoteError(resp *http.Response) *RemoteError {
	defer resp.Body.Close()

	var body struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		json.Unmarshal(data, &body)
	}

	return &RemoteError{Status: resp.StatusCode, Message: body.Message}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
