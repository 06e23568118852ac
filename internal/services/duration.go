package services

import (
	"fmt"
	"strconv"
	"strings"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// maxAnswerMinutes bounds one answer; anything longer is treated as garbage.
const maxAnswerMinutes = 24 * 60

// parseAnswerDuration reads an "MM:SS" answer duration in seconds. Negative
// parts and out of range values do not parse.
func parseAnswerDuration(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, false
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}

	if minutes < 0 || seconds < 0 || minutes > maxAnswerMinutes || seconds > maxAnswerMinutes*60 {
		return 0, false
	}

	return minutes*60 + seconds, true
}

// TotalInterviewSeconds sums the answer durations. Durations that do not
// parse count as zero.
func TotalInterviewSeconds(responses []models.ResponseRecord) int {
	total := 0
	for _, r := range responses {
		if secs, ok := parseAnswerDuration(r.Duration); ok {
			total += secs
		}
	}
	return total
}

// FormatInterviewDuration renders seconds as "<m>m <s>s".
func FormatInterviewDuration(totalSeconds int) string {
	return fmt.Sprintf("%dm %ds", totalSeconds/60, totalSeconds%60)
}
