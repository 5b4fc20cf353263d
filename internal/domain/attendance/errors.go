package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound       = errors.New("attendance record not found")
	ErrSourceUnavailable    = errors.New("attendance source is unavailable")
	ErrNoSnapshot           = errors.New("no attendance data available yet")
	ErrStreamingUnsupported = errors.New("streaming not supported")
)
