// Package calendar provides iCal feed parsing, sync and availability
// queries for property booking calendars.
package calendar

import (
	"strings"
)

// Event is one parsed VEVENT date range. Dates are civil dates in ISO
// YYYY-MM-DD form; EndDate is the checkout day.
type Event struct {
	UID       string `json:"uid"`
	Summary   string `json:"summary"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Parse extracts VEVENT blocks from raw iCalendar text. It is total:
// malformed input never fails the parse, blocks missing a start or end
// date are dropped, and unrecognized lines are skipped. Feed order is
// preserved.
func Parse(text string) []Event {
	var events []Event
	var current *Event

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		colonIdx := strings.Index(line, ":")
		if colonIdx == -1 {
			continue
		}

		key := line[:colonIdx]
		// The value may itself contain colons (URLs in UIDs etc),
		// so only the first one separates key from value.
		value := line[colonIdx+1:]

		// Strip property parameters (DTSTART;VALUE=DATE:20231215).
		if semiIdx := strings.Index(key, ";"); semiIdx != -1 {
			key = key[:semiIdx]
		}

		switch key {
		case "BEGIN":
			if value == "VEVENT" {
				current = &Event{}
			}
		case "END":
			if value == "VEVENT" && current != nil {
				if current.StartDate != "" && current.EndDate != "" {
					events = append(events, *current)
				}
				current = nil
			}
		case "UID":
			if current != nil {
				current.UID = value
			}
		case "SUMMARY":
			if current != nil {
				current.Summary = value
			}
		case "DTSTART":
			if current != nil {
				current.StartDate = normalizeDate(value)
			}
		case "DTEND":
			if current != nil {
				current.EndDate = normalizeDate(value)
			}
		}
	}

	return events
}

// normalizeDate converts iCal date values (20241220, 20241220T160000Z)
// to ISO YYYY-MM-DD. Values in any other shape pass through unchanged;
// validation is not the parser's job.
func normalizeDate(value string) string {
	if tIdx := strings.Index(value, "T"); tIdx != -1 {
		value = value[:tIdx]
	}
	if len(value) == 8 && isDigits(value) {
		return value[:4] + "-" + value[4:6] + "-" + value[6:8]
	}
	return value
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
