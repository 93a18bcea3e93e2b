package items

import (
	"fmt"
	"strconv"
	"strings"
)

// SortableLevel turns a challenge or spell level ("1/4", "3", "12") into a
// key that orders correctly as a string. Unparseable levels sort last.
func SortableLevel(level string) string {
	v, ok := parseLevel(level)
	if !ok {
		return "~" + level
	}
	return fmt.Sprintf("%08.3f", v)
}

func parseLevel(level string) (float64, bool) {
	level = strings.TrimSpace(level)
	if num, den, found := strings.Cut(level, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(level, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
