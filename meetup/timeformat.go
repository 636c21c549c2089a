package meetup

import (
	"regexp"
	"strings"
	"unicode"
)

// Deliberately lenient: the time is never parsed, only shown back to the
// invitees, so anything that plausibly reads as a time is accepted.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}:\d{2}\s*(am|pm)?`),
	regexp.MustCompile(`in\s+\d+\s+(minutes?|hours?)`),
	regexp.MustCompile(`(now|soon|later|afternoon|evening|morning)`),
	regexp.MustCompile(`(lunch|dinner|breakfast)\s*time`),
}

var timeKeywords = []string{"am", "pm", "hour", "minute", "o'clock", ":", "at"}

// ValidTimeText reports whether the free-text time entry looks acceptable.
func ValidTimeText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, re := range timePatterns {
		if re.MatchString(lower) {
			return true
		}
	}

	if strings.ContainsFunc(trimmed, unicode.IsDigit) {
		for _, kw := range timeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}

	// Short reasonable text passes through as-is.
	return len(trimmed) >= 3 && len(trimmed) <= 30
}
