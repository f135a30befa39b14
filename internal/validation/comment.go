package validation

import "strings"

// ValidateComment returns the trimmed comment text or a field error on "text".
func ValidateComment(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		fields := FieldErrors{}
		fields.Add("text", MsgRequired)
		return "", fields.Err()
	}
	return trimmed, nil
}
