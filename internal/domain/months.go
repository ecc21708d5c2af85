package domain

import (
	"sort"
	"strings"
)

// MonthNames are the canonical short month labels used across the tables.
var MonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthIndex maps a month label (short or full, any case) to its 0-based
// calendar position, or -1 when it does not parse.
func MonthIndex(name string) int {
	if len(name) < 3 {
		return -1
	}
	prefix := strings.ToLower(name[:3])
	for i, m := range MonthNames {
		if strings.ToLower(m) == prefix {
			return i
		}
	}
	return -1
}

// SortMonthly orders revenue rows chronologically, by year then calendar
// month.
func SortMonthly(rows []MonthlySales) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return MonthIndex(rows[i].Month) < MonthIndex(rows[j].Month)
	})
}
