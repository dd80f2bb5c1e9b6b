// Package json provides tolerant JSON extraction for model output.
//
// Models occasionally wrap tool arguments in markdown code fences or prepend
// commentary. This package recovers the JSON object from such payloads
// before strict decoding.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode unmarshals data into result, tolerating markdown fences and
// surrounding prose. A strict parse is tried first; extraction only kicks in
// when that fails.
func Decode(data []byte, result interface{}) error {
	if err := json.Unmarshal(data, result); err == nil {
		return nil
	}

	jsonStr, err := extract(string(data))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), result); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extract finds the JSON object portion of a response string.
//
// Limitations:
// - Only handles JSON objects, not arrays
// - Uses simple brace matching, not full JSON parsing
func extract(response string) (string, error) {
	response = stripFences(response)

	var probe interface{}
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response, nil
	}

	start := strings.Index(response, "{")
	if start != -1 {
		end := strings.LastIndex(response, "}")
		if end > start {
			candidate := response[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
				return candidate, nil
			}
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// stripFences removes markdown code block markers.
// Handles patterns like ```json\n...\n``` or ```\n...\n```
func stripFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}
