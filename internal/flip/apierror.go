package flip

import (
	"encoding/json"
	"strings"
)

// UpstreamError is a non-2xx response from the Flip API with a user-facing
// message already extracted from the body.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// errorBody covers the failure shapes the Flip API is known to return.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ExtractMessage turns a raw failure body into a single human-readable
// message. Priority order: top-level message, then a string error field,
// then the messages of an errors list joined by "; ". Anything else falls
// back to the raw body behind a generic marker; unparseable bodies are
// truncated to 100 characters.
func ExtractMessage(raw string) string {
	var body errorBody
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		if len(raw) > 100 {
			raw = raw[:100]
		}
		return "API Error: " + raw + "..."
	}

	if body.Message != "" {
		return body.Message
	}

	var errStr string
	if len(body.Error) > 0 && json.Unmarshal(body.Error, &errStr) == nil && errStr != "" {
		return errStr
	}

	if len(body.Errors) > 0 {
		var messages []string
		for _, e := range body.Errors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
	}

	return "API Error: " + raw
}
