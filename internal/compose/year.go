package compose

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatYear renders a raw year string for display: "-10000" becomes
// "10000 B.C." and "2077" becomes "2077 A.D.". Strings that do not parse as
// integers are returned unchanged.
func FormatYear(year string) string {
	year = strings.TrimSpace(year)
	if year == "" {
		return ""
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return year
	}
	if n < 0 {
		return fmt.Sprintf("%d B.C.", -n)
	}
	return fmt.Sprintf("%d A.D.", n)
}
