package repository

// Window is a stat provider date-range keyword.
type Window string

const (
	WindowLast24Hours Window = "last24hours"
	WindowLast7Days   Window = "last7days"
	WindowLast30Days  Window = "last30days"
)

// IsValidWindow returns true if w is a supported stat window.
func IsValidWindow(w Window) bool {
	switch w {
	case WindowLast24Hours, WindowLast7Days, WindowLast30Days:
		return true
	default:
		return false
	}
}

// WindowFor maps a UI alias ("24h"/"7d"/"30d") to a stat window, or derives
// one from a lookback in minutes when no alias is supplied.
func WindowFor(ui string, sinceMinutes int) Window {
	switch ui {
	case "24h":
		return WindowLast24Hours
	case "7d":
		return WindowLast7Days
	case "30d":
		return WindowLast30Days
	}
	if sinceMinutes <= 1440 {
		return WindowLast24Hours
	}
	if sinceMinutes <= 10080 {
		return WindowLast7Days
	}
	return WindowLast30Days
}
