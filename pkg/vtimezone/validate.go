package vtimezone

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
	log "github.com/sirupsen/logrus"
)

// Validate checks that every entry is a single VTIMEZONE component carrying a TZID.
func Validate(c *Catalog) error {
	for _, name := range c.Names() {
		tzid, err := validateEntry(c.entries[name])
		if err != nil {
			return fmt.Errorf("%w: entry %q: %v", ErrCatalogUnavailable, name, err)
		}
		if tzid != name {
			log.Warnf("timezone %q declares TZID %q", name, tzid)
		}
	}
	return nil
}

func validateEntry(content string) (string, error) {
	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//vtzproxy//catalog//EN\r\n")
	sb.WriteString(strings.TrimRight(content, "\r\n"))
	sb.WriteString("\r\nEND:VCALENDAR\r\n")

	cal, err := ical.NewDecoder(strings.NewReader(sb.String())).Decode()
	if err != nil {
		return "", err
	}

	var timezones []*ical.Component
	for _, child := range cal.Children {
		if child.Name == ical.CompTimezone {
			timezones = append(timezones, child)
		}
	}
	if len(timezones) != 1 {
		return "", fmt.Errorf("expected exactly one %s component, found %d", ical.CompTimezone, len(timezones))
	}

	tzid := timezones[0].Props.Get(ical.PropTimezoneID)
	if tzid == nil || tzid.Value == "" {
		return "", fmt.Errorf("%s without %s", ical.CompTimezone, ical.PropTimezoneID)
	}
	return tzid.Value, nil
}
