// Package dates parses relative date expressions ("tomorrow", "this
// weekend", bare weekday names, embedded ISO dates) into calendar dates.
// The clock is injected so resolution is deterministic under test.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// ISODate is the wire format for calendar dates throughout the pipeline.
const ISODate = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	// Planning-intent keywords: when present and no date expression matched,
	// resolution defaults to tomorrow.
	planningKeywords = []string{"plan", "schedule", "organize", "arrange"}

	weekdays = []struct {
		name string
		day  time.Weekday
	}{
		{"monday", time.Monday},
		{"tuesday", time.Tuesday},
		{"wednesday", time.Wednesday},
		{"thursday", time.Thursday},
		{"friday", time.Friday},
		{"saturday", time.Saturday},
		{"sunday", time.Sunday},
	}
)

// Resolver resolves free-text date expressions relative to its clock.
type Resolver struct {
	clock clockwork.Clock
}

// NewResolver creates a Resolver using the given clock. Pass
// clockwork.NewRealClock() in production wiring.
func NewResolver(clock clockwork.Clock) *Resolver {
	return &Resolver{clock: clock}
}

// Resolve parses the first date expression found in text and returns it as
// YYYY-MM-DD. The second return value is false when no date was found; the
// caller substitutes its own default (conventionally tomorrow).
//
// Resolution order, first match wins:
//
//	"today" -> today
//	"tomorrow" -> tomorrow
//	"weekend" -> next Saturday (rolls a full week when today is Saturday)
//	"next week" -> next Monday
//	bare weekday name -> next occurrence strictly after today
//	embedded YYYY-MM-DD literal -> passed through unvalidated
//	planning-intent keyword present -> tomorrow
//
// Malformed explicit dates pass through the literal branch unchanged and
// are the caller's responsibility to validate.
func (r *Resolver) Resolve(text string) (string, bool) {
	lower := strings.ToLower(text)
	today := r.clock.Now()

	if strings.Contains(lower, "today") {
		return today.Format(ISODate), true
	}

	if strings.Contains(lower, "tomorrow") {
		return today.AddDate(0, 0, 1).Format(ISODate), true
	}

	if strings.Contains(lower, "weekend") {
		days := int((time.Saturday - today.Weekday() + 7) % 7)
		if days == 0 {
			// Already Saturday: "this weekend" rolls to the next one.
			days = 7
		}
		return today.AddDate(0, 0, days).Format(ISODate), true
	}

	if strings.Contains(lower, "next week") {
		days := int((time.Monday - today.Weekday() + 7) % 7)
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days).Format(ISODate), true
	}

	for _, wd := range weekdays {
		if !strings.Contains(lower, wd.name) {
			continue
		}
		days := int((wd.day - today.Weekday() + 7) % 7)
		if days == 0 {
			// Today's own weekday name means next week, never today.
			days = 7
		}
		return today.AddDate(0, 0, days).Format(ISODate), true
	}

	if m := isoDatePattern.FindString(text); m != "" {
		return m, true
	}

	for _, kw := range planningKeywords {
		if strings.Contains(lower, kw) {
			return today.AddDate(0, 0, 1).Format(ISODate), true
		}
	}

	return "", false
}

// FormatHuman converts a YYYY-MM-DD date to "Monday, January 02, 2006"
// form for prompts and display. Malformed input passes through unchanged.
func FormatHuman(dateStr string) string {
	d, err := time.Parse(ISODate, dateStr)
	if err != nil {
		return dateStr
	}
	return d.Format("Monday, January 02, 2006")
}
