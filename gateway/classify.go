package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// DefaultMarkers are the server error messages that indicate a credential
// problem surfaced as a 500 instead of a 401. The EMS backend reports an
// evicted user or an expired token this way on some endpoints, so the
// transport treats a 500 carrying one of these as an auth failure.
var DefaultMarkers = []string{
	"Usuario no encontrado",
	"User not found",
	"JWT",
	"token",
}

// maxClassifyBody caps how much of an error body is buffered for
// classification. Error payloads are small JSON envelopes; anything larger
// is not an auth failure signal.
const maxClassifyBody = 64 << 10

type classifier struct {
	markers []string
}

// authFailure reports whether the response demands session invalidation.
// It may replace resp.Body with a buffered copy so the caller still sees
// the full payload.
func (c *classifier) authFailure(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return true
	case http.StatusInternalServerError:
		if len(c.markers) == 0 {
			return false
		}
		return c.markedBody(resp)
	default:
		return false
	}
}

func (c *classifier) markedBody(resp *http.Response) bool {
	if resp.Body == nil {
		return false
	}
	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxClassifyBody))
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(buf))
	if err != nil {
		return false
	}

	msg := errorMessage(buf)
	if msg == "" {
		return false
	}
	for _, marker := range c.markers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// errorMessage extracts the "message" field from a JSON error envelope.
// Non-JSON bodies carry no classifiable message.
func errorMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
