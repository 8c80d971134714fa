package youtube

import (
	"fmt"
	"regexp"
	"strings"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration decodes an ISO-8601 video duration ("PT1H2M3S") into the
// display form used by the catalog: "H:MM:SS" with hours, "MM:SS" without.
// Absent or unparsable input yields "0:00".
func ParseDuration(raw string) string {
	if raw == "" {
		return "0:00"
	}
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return "0:00"
	}

	hours, minutes, seconds := m[1], m[2], m[3]
	if minutes == "" {
		minutes = "0"
	}
	if seconds == "" {
		seconds = "0"
	}

	parts := make([]string, 0, 3)
	if hours != "" {
		parts = append(parts, hours)
	}
	parts = append(parts, pad2(minutes), pad2(seconds))
	return strings.Join(parts, ":")
}

func pad2(s string) string {
	if len(s) < 2 {
		return fmt.Sprintf("0%s", s)
	}
	return s
}
