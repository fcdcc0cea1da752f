package timeexpr

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-module/carbon/v2"
)

// punctuation is treated as token separators when scanning free text for an
// offset phrase.
const punctuation = `!()-[]{};:'"\, <>./?@#$%^&*_~`

// unitSeconds maps every accepted unit token to its length in seconds using
// calendar approximations (month = 30 days, year = 365 days).
var unitSeconds = map[string]int{
	"minute": 60, "minutes": 60,
	"hour": 3600, "hours": 3600,
	"day": 86400, "days": 86400,
	"week": 604800, "weeks": 604800,
	"month": 2592000, "months": 2592000,
	"year": 31536000, "years": 31536000,
}

// tokenize replaces punctuation with spaces and splits the remainder on
// whitespace.
func tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(punctuation, r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

// ExtractOffsetPhrase scans text for keyword (case-insensitive) and returns
// the offset phrase following it as "<magnitude> <unit>", or "" when the
// keyword is absent. A non-integer magnitude yields the default "1 day"; an
// unknown or missing unit defaults to "day".
func ExtractOffsetPhrase(text, keyword string) string {
	keyword = strings.ToLower(keyword)
	tokens := tokenize(text)
	for i, token := range tokens {
		if strings.ToLower(token) != keyword || i+1 >= len(tokens) {
			continue
		}
		magnitude := tokens[i+1]
		if _, err := strconv.Atoi(magnitude); err != nil {
			return "1 day"
		}
		unit := "day"
		if i+2 < len(tokens) {
			if _, known := unitSeconds[strings.ToLower(tokens[i+2])]; known {
				unit = tokens[i+2]
			}
		}
		return magnitude + " " + unit
	}
	return ""
}

// ResolveAbsolute adds an offset phrase ("3 days", "1 month") to base.
//
// Month arithmetic is not calendar rollover: once the resulting month reaches
// 12 it wraps to newMonth%12+1 and the year advances by newMonth/12. Month
// offsets that stay under December shift the month in place.
func ResolveAbsolute(phrase string, base time.Time) time.Time {
	parts := strings.Fields(phrase)
	if len(parts) < 2 {
		return base
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return base
	}
	c := carbon.Time2Carbon(base)
	switch strings.ToLower(parts[1]) {
	case "minute", "minutes":
		c = c.AddMinutes(n)
	case "hour", "hours":
		c = c.AddHours(n)
	case "day", "days":
		c = c.AddDays(n)
	case "week", "weeks":
		c = c.AddWeeks(n)
	case "year", "years":
		c = c.AddYears(n)
	case "month", "months":
		return addMonthsWrapped(base, n)
	default:
		return base
	}
	return c.Carbon2Time()
}

func addMonthsWrapped(base time.Time, n int) time.Time {
	newMonth := int(base.Month()) + n
	year := base.Year()
	if newMonth >= 12 {
		year += newMonth / 12
		newMonth = newMonth%12 + 1
	}
	return time.Date(year, time.Month(newMonth), base.Day(),
		base.Hour(), base.Minute(), base.Second(), base.Nanosecond(), base.Location())
}

// ParseDueTime computes the absolute time text asks to be reminded at,
// relative to the moment the request was sent. An "in <n> <unit>" phrase wins;
// otherwise the text is scanned for an explicit day-first date and/or clock
// time, with missing components defaulted from sent; with neither present the
// due time is one day after sent.
func ParseDueTime(text string, sent time.Time) time.Time {
	sent = sent.Truncate(time.Second)
	if phrase := ExtractOffsetPhrase(text, "in"); phrase != "" {
		return ResolveAbsolute(phrase, sent)
	}
	if due, ok := extractDate(text, sent); ok {
		return due
	}
	return ResolveAbsolute("1 day", sent)
}

// ParseRepeatInterval returns the repeat interval in seconds requested by an
// "every <n> <unit>" phrase, or 0 when the text does not ask for repetition.
func ParseRepeatInterval(text string) int {
	phrase := ExtractOffsetPhrase(text, "every")
	if phrase == "" {
		return 0
	}
	parts := strings.Fields(phrase)
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return n * unitSeconds[strings.ToLower(parts[1])]
}
