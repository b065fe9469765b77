package recognition

import (
	"errors"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/door"
	"github.com/kozaktomas/face-attendance/internal/facestore"
	"github.com/kozaktomas/face-attendance/internal/notify"
)

// Errors surfaced to the user. Every flow aborts on the first one; none is retried.
var (
	// Input validation
	ErrMissingInput  = errors.New("missing name or registration number")
	ErrInvalidInput  = errors.New("invalid name or registration number")
	ErrNoFace        = errors.New("no face detected")
	ErrMultipleFaces = errors.New("more than one face detected")

	// Capture and encoding
	ErrCaptureFailed = errors.New("failed to capture frame")
	ErrEncoderFailed = errors.New("face encoding failed")

	// Store and log outcomes
	ErrDuplicate         = facestore.ErrDuplicate
	ErrNotRecognized     = errors.New("face not recognized")
	ErrAlreadyMarked     = attendance.ErrAlreadyMarked
	ErrFaceNotFound      = facestore.ErrNotFound
	ErrIndexOutOfRange   = facestore.ErrIndexOutOfRange
	ErrDimensionMismatch = facestore.ErrDimensionMismatch

	// I/O and configuration
	ErrNoAttendance  = attendance.ErrNoRecords
	ErrMissingConfig = errors.New("missing configuration")

	// Network
	ErrDoorFailed  = door.ErrOpenFailed
	ErrEmailFailed = notify.ErrSendFailed
)

// userMessages maps each error class to the text shown in the UI.
var userMessages = []struct {
	err error
	msg string
}{
	{ErrMissingInput, "Please enter both name and registration number."},
	{ErrInvalidInput, "Registration number must not contain '_' and fields must be at most 100 characters."},
	{ErrNoFace, "Ensure only one face is visible."},
	{ErrMultipleFaces, "Ensure only one face is visible."},
	{ErrCaptureFailed, "Failed to capture frame."},
	{ErrEncoderFailed, "Face encoding service failed."},
	{ErrDuplicate, "You are already registered."},
	{ErrNotRecognized, "Face not recognized."},
	{ErrAlreadyMarked, "Already marked present today."},
	{ErrFaceNotFound, "No such registered face."},
	{ErrIndexOutOfRange, "No face selected."},
	{ErrDimensionMismatch, "Face encoding does not match the stored faces. Check ENCODING_DIM and the embedding model."},
	{ErrNoAttendance, "No attendance records."},
	{ErrDoorFailed, "Failed to open door."},
	{ErrEmailFailed, "Failed to send email."},
}

// UserMessage returns the modal text for err. Configuration errors carry the
// missing keys, so their full text is shown.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrMissingConfig) {
		return "Missing configuration: " + strings.TrimPrefix(err.Error(), ErrMissingConfig.Error()+": ")
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Unexpected error: " + err.Error()
}
