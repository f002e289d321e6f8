package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Event names emitted by the prediction service
const (
	EventPending   = "pending"
	EventComplete  = "complete"
	EventError     = "error"
	eventHeartbeat = "heartbeat"
)

// errMalformedFrame marks a poll body that could not be read as an event frame.
// It is a continued-polling condition, never surfaced to callers.
var errMalformedFrame = errors.New("malformed event frame")

// frame is one decoded poll response
type frame struct {
	Event string
	// Data is the decoded data payload, nil when absent
	Data any
	// Raw is the undecoded data line, kept for error reporting
	Raw string
}

// parseFrame reads a poll body. The body is normally event-stream text
// ("event: complete\ndata: [...]"), but it may also arrive wrapped as a JSON
// string or as {"data": "<frame text>"}.
func parseFrame(body []byte) (frame, error) {
	text := unwrapBody(body)

	var f frame
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "event:"):
			f.Event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			f.Raw = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}

	if f.Event == "" {
		return frame{}, errMalformedFrame
	}

	if f.Raw == "" || f.Raw == "null" {
		return f, nil
	}

	data, err := decodeData(f.Raw)
	if err != nil {
		// error events may carry a bare message
		if f.Event == EventError {
			f.Data = f.Raw
			return f, nil
		}
		return frame{}, errMalformedFrame
	}
	f.Data = data
	return f, nil
}

func unwrapBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{':
		var wrapped struct {
			Data *string `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err == nil && wrapped.Data != nil {
			return *wrapped.Data
		}
	}
	return string(trimmed)
}

// decodeData decodes a data payload, unwrapping one extra level of JSON
// encoding when the payload is a JSON string that itself holds JSON.
func decodeData(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}

	s, ok := v.(string)
	if !ok {
		return v, nil
	}

	var inner any
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return s, nil
	}
	return inner, nil
}

// containsMarker reports whether a complete payload carries the success marker.
// The model answers with a list whose first element is a sentence; a bare
// string answer is accepted too.
func containsMarker(data any, marker string) bool {
	switch v := data.(type) {
	case []any:
		if len(v) == 0 {
			return false
		}
		first, ok := v[0].(string)
		return ok && strings.Contains(first, marker)
	case string:
		return strings.Contains(v, marker)
	default:
		return false
	}
}
