package schedule

import "time"

// YearOptions lists the selectable years: the current year and the five that
// follow it.
func YearOptions(now time.Time) []int {
	years := make([]int, 6)
	for i := range years {
		years[i] = now.Year() + i
	}
	return years
}

// MonthOptions lists the selectable months, 1 through 12.
func MonthOptions() []int {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

// DayOptions lists the selectable days for a given year and month, leap years
// included.
func DayOptions(year, month int) []int {
	days := make([]int, DaysIn(year, month))
	for i := range days {
		days[i] = i + 1
	}
	return days
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartHourOptions lists the selectable start hours, 8 through 22.
func StartHourOptions() []int {
	return hourRange(OpenHour, LastStartHour)
}

// EndHourOptions lists the selectable end hours, 8 through 24.
func EndHourOptions() []int {
	return hourRange(OpenHour, CloseHour)
}

// MinuteOptions lists the selectable minutes on the slot grid.
func MinuteOptions() []int {
	return []int{0, 15, 30, 45}
}

func hourRange(from, to int) []int {
	hours := make([]int, 0, to-from+1)
	for h := from; h <= to; h++ {
		hours = append(hours, h)
	}
	return hours
}
