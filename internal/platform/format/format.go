package format

import "fmt"

// Clock renders seconds as "MM : SS". Negative values render as zero.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d : %02d", seconds/60, seconds%60)
}

// Duration renders a total as "1h 5m", "4m 10s" or "9s".
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds >= 3600:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	case seconds >= 60:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
