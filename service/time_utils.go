package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	colonForm     = regexp.MustCompile(`^(\d+):(\d+):(\d+):(\d+)$`)
	shorthandForm = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
)

// ParseTimeInput converts a human duration literal to seconds. Accepted
// forms: colon-separated "ddd:hh:mm:ss" with all four segments present,
// shorthand "1d2h30m15s" with any subset of units and optional spaces
// between them, and a bare integer meaning seconds. Returns
// ErrInvalidTimeLiteral for anything else.
func ParseTimeInput(input string) (int64, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" {
		return 0, ErrInvalidTimeLiteral
	}

	if strings.Contains(s, ":") {
		m := colonForm.FindStringSubmatch(s)
		if m == nil {
			return 0, ErrInvalidTimeLiteral
		}
		weights := []int64{86400, 3600, 60, 1}
		var total int64
		for i, g := range m[1:] {
			v, err := strconv.ParseInt(g, 10, 64)
			if err != nil {
				return 0, ErrInvalidTimeLiteral
			}
			total += v * weights[i]
		}
		return total, nil
	}

	if bare, err := strconv.ParseInt(s, 10, 64); err == nil {
		if bare < 0 {
			return 0, ErrInvalidTimeLiteral
		}
		return bare, nil
	}

	// Unit segments may be spaced out ("1d 2h 30m", "45 m").
	compact := strings.Join(strings.Fields(s), "")
	m := shorthandForm.FindStringSubmatch(compact)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "") {
		return 0, ErrInvalidTimeLiteral
	}
	weights := []int64{86400, 3600, 60, 1}
	var total int64
	for i, g := range m[1:] {
		if g == "" {
			continue
		}
		v, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return 0, ErrInvalidTimeLiteral
		}
		total += v * weights[i]
	}
	return total, nil
}

// FormatDuration renders seconds as "Nd Nh Nm Ns" with all four units
// always present
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, secs)
}
