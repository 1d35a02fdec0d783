package util

import "fmt"

// DefaultLogMaxLen caps upstream response bodies quoted in logs and error
// messages. Spotify error bodies are small; anything longer is noise.
const DefaultLogMaxLen = 1024

// TruncateLog shortens long strings destined for logs or error text.
func TruncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}

// TruncateBytes is TruncateLog for raw response bodies, with the default cap.
func TruncateBytes(b []byte) string {
	return TruncateLog(string(b), DefaultLogMaxLen)
}
