package test_utils

import (
	_ "embed"
)

var (
	//go:embed fixtures/outlook.ics
	OutlookCalendar string
	//go:embed fixtures/no_timezone.ics
	CalendarWithoutTimezone string
	//go:embed fixtures/pacific.vtimezone
	PacificTimezone string
)
