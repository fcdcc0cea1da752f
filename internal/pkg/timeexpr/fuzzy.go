package timeexpr

import (
	"strings"
	"time"
)

// Day-first layouts accepted for explicit dates inside free text.
var dateLayouts = []string{
	"2.1.2006",
	"02.01.2006",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2006-01-02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04pm",
	"3pm",
}

// extractDate scans text for an explicit date and/or clock time, day-first.
// Components absent from the text are defaulted from def. The second return
// value is false when the text carries neither a date nor a time.
func extractDate(text string, def time.Time) (time.Time, bool) {
	var (
		date     time.Time
		clock    time.Time
		hasDate  bool
		hasClock bool
	)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, `!?,;'"()`)
		if !hasDate {
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, token); err == nil {
					date, hasDate = t, true
					break
				}
			}
		}
		if !hasClock {
			for _, layout := range clockLayouts {
				if t, err := time.Parse(layout, token); err == nil {
					clock, hasClock = t, true
					break
				}
			}
		}
	}
	if !hasDate && !hasClock {
		return time.Time{}, false
	}

	year, month, day := def.Date()
	if hasDate {
		year, month, day = date.Date()
	}
	hour, minute, second := def.Hour(), def.Minute(), def.Second()
	if hasClock {
		hour, minute, second = clock.Hour(), clock.Minute(), clock.Second()
	}
	return time.Date(year, month, day, hour, minute, second, 0, def.Location()), true
}
