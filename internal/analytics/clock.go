package analytics

import "time"

// Location is the fixed UTC+7 calendar used for every date bucket,
// independent of the server or client locale.
var Location = time.FixedZone("UTC+7", 7*60*60)

// DateLayout is the format of MealRecord.Date.
const DateLayout = "2006-01-02"

// DateOf returns the UTC+7 calendar date of t.
func DateOf(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// TrailingDates returns n calendar dates ending at the UTC+7 date of ref,
// oldest first.
func TrailingDates(ref time.Time, n int) []string {
	local := ref.In(Location)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = day.AddDate(0, 0, -i).Format(DateLayout)
	}
	return out
}
