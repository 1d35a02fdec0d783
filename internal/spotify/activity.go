package spotify

import "time"

// HourlyActivity is the play count for one hour of the day.
type HourlyActivity struct {
	Hour       int     `json:"hour"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// WeekdayActivity is the play count for one weekday.
type WeekdayActivity struct {
	Day        int     `json:"day"` // 0 = Sunday
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Activity is the aggregated listening pattern for the charts page.
type Activity struct {
	Hourly   []HourlyActivity  `json:"hourly"`
	Weekdays []WeekdayActivity `json:"weekdays"`
	Total    int               `json:"total"`
}

// AggregateActivity buckets play history by hour of day and weekday, in
// the local time zone. Items whose timestamp cannot be parsed are skipped.
func AggregateActivity(items []PlayHistoryItem) Activity {
	var hours [24]int
	var days [7]int
	total := 0

	for _, item := range items {
		playedAt, err := time.Parse(time.RFC3339, item.PlayedAt)
		if err != nil {
			continue
		}
		local := playedAt.Local()
		hours[local.Hour()]++
		days[int(local.Weekday())]++
		total++
	}

	act := Activity{
		Hourly:   make([]HourlyActivity, 24),
		Weekdays: make([]WeekdayActivity, 7),
		Total:    total,
	}
	for h := 0; h < 24; h++ {
		act.Hourly[h] = HourlyActivity{
			Hour:       h,
			Count:      hours[h],
			Percentage: percentage(hours[h], total),
		}
	}
	for d := 0; d < 7; d++ {
		act.Weekdays[d] = WeekdayActivity{
			Day:        d,
			Name:       time.Weekday(d).String(),
			Count:      days[d],
			Percentage: percentage(days[d], total),
		}
	}
	return act
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}
