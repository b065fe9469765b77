// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Face matching constants
const (
	// DefaultMatchThreshold is the maximum Euclidean distance between two encodings
	// of the same person. 0.6 is the tolerance the face encoder models are tuned for;
	// lower values = stricter matching
	DefaultMatchThreshold = 0.6

	// DefaultEncodingDim is the length of a face encoding produced by the embedding service
	DefaultEncodingDim = 128
)

// Storage constants
const (
	// DefaultFaceDatabaseFile is where enrolled encodings are persisted
	DefaultFaceDatabaseFile = "face_database.dat"

	// DefaultAttendanceFile is the tabular attendance log
	DefaultAttendanceFile = "attendance.csv"

	// ReportFileName is the attachment name of the emailed spreadsheet
	ReportFileName = "attendance.xlsx"
)

// Camera constants
const (
	// MaxImageSize is the maximum dimension (width or height) of a captured frame
	MaxImageSize = 1280

	// FramePollInterval is how often the web UI refreshes the video panel
	FramePollInterval = 200 * time.Millisecond
)

// Door controller constants
const (
	// DefaultDoorTimeout bounds a single unlock request
	DefaultDoorTimeout = 5 * time.Second

	// DoorOpenAction is the action understood by the controller's /control endpoint
	DoorOpenAction = "open_door"
)

// Email constants
const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 465

	ReportSubject = "Daily Attendance Report"
	ReportBody    = "Please find the attached attendance report."
)
