package recognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/camera"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/door"
	"github.com/kozaktomas/face-attendance/internal/encoder"
	"github.com/kozaktomas/face-attendance/internal/facestore"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/notify"
)

// FaceDetector finds faces in a frame and returns one encoding per face.
type FaceDetector interface {
	DetectFaces(ctx context.Context, imageData []byte) (*encoder.FaceResponse, error)
}

// DoorOpener unlocks the door.
type DoorOpener interface {
	Open(ctx context.Context) error
}

// Options holds the collaborators of a Service. Camera, Door and Notifier may be
// nil; flows needing them then fail with ErrMissingConfig.
type Options struct {
	Store    *facestore.Store
	Log      *attendance.Log
	Camera   camera.Source
	Encoder  FaceDetector
	Door     DoorOpener
	Notifier notify.Notifier
	Email    config.EmailConfig
	Now      func() time.Time
}

// Service runs the register, attendance, access and report flows.
type Service struct {
	store    *facestore.Store
	log      *attendance.Log
	camera   camera.Source
	encoder  FaceDetector
	door     DoorOpener
	notifier notify.Notifier
	email    config.EmailConfig
	now      func() time.Time
	validate *validator.Validate
}

// NewService creates a service from its collaborators.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:    opts.Store,
		log:      opts.Log,
		camera:   opts.Camera,
		encoder:  opts.Encoder,
		door:     opts.Door,
		notifier: opts.Notifier,
		email:    opts.Email,
		now:      now,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Person identifies a registered person.
type Person struct {
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
	RegNumber string `json:"reg_number"`
}

// Recognition is a successful match against the store.
type Recognition struct {
	Person
	Index    int     `json:"index"`
	Distance float64 `json:"distance"`
}

// Mark is a recorded attendance.
type Mark struct {
	Recognition
	Row attendance.Row `json:"row"`
}

// RegisterInput is the user-entered identity for a new face.
type RegisterInput struct {
	Name      string `validate:"required,max=100"`
	RegNumber string `validate:"required,max=50,excludes=_"`
}

// ValidateInput trims and checks the name and registration number.
func (s *Service) ValidateInput(name, regNumber string) (RegisterInput, error) {
	in := RegisterInput{
		Name:      strings.TrimSpace(name),
		RegNumber: strings.TrimSpace(regNumber),
	}
	if in.Name == "" || in.RegNumber == "" {
		return in, ErrMissingInput
	}
	if err := s.validate.Struct(in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return in, nil
}

// Threshold returns the match threshold of the face store.
func (s *Service) Threshold() float64 {
	return s.store.Threshold()
}

// Capture grabs a single frame from the camera.
func (s *Service) Capture(ctx context.Context) ([]byte, error) {
	if s.camera == nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, camera.ErrNotConfigured)
	}
	logState("capture", nil)
	frame, err := s.camera.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if len(frame) == 0 {
		return nil, ErrCaptureFailed
	}
	return frame, nil
}

// Register captures a frame and stores its face under name and regNumber.
func (s *Service) Register(ctx context.Context, name, regNumber string) (Person, error) {
	in, err := s.ValidateInput(name, regNumber)
	if err != nil {
		return Person{}, err
	}
	frame, err := s.Capture(ctx)
	if err != nil {
		return Person{}, err
	}
	return s.RegisterFrame(ctx, in.Name, in.RegNumber, frame)
}

// RegisterFrame stores the single face found in frame. Registration is refused
// when the face matches any stored encoding.
func (s *Service) RegisterFrame(ctx context.Context, name, regNumber string, frame []byte) (Person, error) {
	in, err := s.ValidateInput(name, regNumber)
	if err != nil {
		return Person{}, err
	}
	encoding, err := s.encodeSingle(ctx, frame)
	if err != nil {
		return Person{}, err
	}

	person := Person{
		PersonID:  facestore.PersonID(in.Name, in.RegNumber),
		Name:      in.Name,
		RegNumber: in.RegNumber,
	}
	if err := s.store.Register(person.PersonID, encoding); err != nil {
		logState("reject", logger.Fields{"person_id": person.PersonID, "error": err.Error()})
		return Person{}, err
	}
	logState("accept", logger.Fields{"person_id": person.PersonID, "faces": s.store.Len()})
	return person, nil
}

// MarkAttendance captures a frame and marks the recognised person present today.
func (s *Service) MarkAttendance(ctx context.Context) (Mark, error) {
	frame, err := s.Capture(ctx)
	if err != nil {
		return Mark{}, err
	}
	return s.MarkAttendanceFrame(ctx, frame)
}

// MarkAttendanceFrame marks the person recognised in frame at most once per day.
func (s *Service) MarkAttendanceFrame(ctx context.Context, frame []byte) (Mark, error) {
	rec, err := s.Identify(ctx, frame)
	if err != nil {
		return Mark{}, err
	}

	row, err := s.log.Mark(rec.Name, rec.RegNumber, s.now())
	if err != nil {
		logState("reject", logger.Fields{"person_id": rec.PersonID, "error": err.Error()})
		return Mark{Recognition: rec}, err
	}
	logState("accept", logger.Fields{"person_id": rec.PersonID, "date": row.Date, "time": row.Time})
	return Mark{Recognition: rec, Row: row}, nil
}

// CheckAccess captures a frame and opens the door for a recognised person.
func (s *Service) CheckAccess(ctx context.Context) (Recognition, error) {
	frame, err := s.Capture(ctx)
	if err != nil {
		return Recognition{}, err
	}
	return s.CheckAccessFrame(ctx, frame)
}

// CheckAccessFrame opens the door when frame shows a registered person. The
// recognition is returned even when the door request fails.
func (s *Service) CheckAccessFrame(ctx context.Context, frame []byte) (Recognition, error) {
	rec, err := s.Identify(ctx, frame)
	if err != nil {
		return Recognition{}, err
	}
	if s.door == nil {
		return rec, fmt.Errorf("%w: %v", ErrMissingConfig, door.ErrNotConfigured)
	}

	if err := s.door.Open(ctx); err != nil {
		if errors.Is(err, door.ErrNotConfigured) {
			return rec, fmt.Errorf("%w: %v", ErrMissingConfig, err)
		}
		logState("reject", logger.Fields{"person_id": rec.PersonID, "error": err.Error()})
		return rec, err
	}
	logState("accept", logger.Fields{"person_id": rec.PersonID, "door": "open"})
	return rec, nil
}

// Identify returns the closest registered person for the single face in frame.
func (s *Service) Identify(ctx context.Context, frame []byte) (Recognition, error) {
	encoding, err := s.encodeSingle(ctx, frame)
	if err != nil {
		return Recognition{}, err
	}

	logState("match", logger.Fields{"faces": s.store.Len()})
	m, ok := s.store.BestMatch(encoding, s.store.Threshold())
	if !ok {
		logState("reject", logger.Fields{"distance": m.Distance})
		return Recognition{}, ErrNotRecognized
	}

	name, reg, _ := facestore.SplitPersonID(m.PersonID)
	return Recognition{
		Person:   Person{PersonID: m.PersonID, Name: name, RegNumber: reg},
		Index:    m.Index,
		Distance: m.Distance,
	}, nil
}

// SendReport emails the attendance file as a spreadsheet.
func (s *Service) SendReport(ctx context.Context) error {
	if missing := s.email.MissingKeys(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	if s.notifier == nil {
		return fmt.Errorf("%w: no email notifier", ErrMissingConfig)
	}

	var buf bytes.Buffer
	if err := s.log.ExportXLSX(&buf); err != nil {
		return err
	}

	report := notify.NewAttendanceReport(s.email.Recipient, buf.Bytes())
	if err := s.notifier.Send(ctx, report); err != nil {
		logger.Error(logger.Fields{"to": s.email.Recipient, "error": err.Error()}, "attendance report not sent")
		return err
	}
	logger.Info(logger.Fields{"to": s.email.Recipient, "bytes": buf.Len()}, "attendance report sent")
	return nil
}

// Faces lists the registered records in storage order.
func (s *Service) Faces() []facestore.Record {
	return s.store.Records()
}

// DeleteFace removes the record at index.
func (s *Service) DeleteFace(index int) (facestore.Record, error) {
	rec, err := s.store.Delete(index)
	if err != nil {
		return facestore.Record{}, err
	}
	logger.Info(logger.Fields{"person_id": rec.PersonID, "index": index}, "face deleted")
	return rec, nil
}

// DeleteFaceByID removes the first record stored under personID.
func (s *Service) DeleteFaceByID(personID string) (facestore.Record, error) {
	rec, err := s.store.DeleteByID(personID)
	if err != nil {
		return facestore.Record{}, err
	}
	logger.Info(logger.Fields{"person_id": rec.PersonID}, "face deleted")
	return rec, nil
}

// Attendance returns all attendance rows.
func (s *Service) Attendance() ([]attendance.Row, error) {
	return s.log.Rows()
}

// ClearAttendance deletes the attendance file.
func (s *Service) ClearAttendance() error {
	if err := s.log.Clear(); err != nil {
		return err
	}
	logger.Info(logger.Fields{"file": s.log.Path()}, "attendance cleared")
	return nil
}

// encodeSingle detects faces in frame and requires exactly one.
func (s *Service) encodeSingle(ctx context.Context, frame []byte) ([]float32, error) {
	if len(frame) == 0 {
		return nil, ErrCaptureFailed
	}
	if s.encoder == nil {
		return nil, fmt.Errorf("%w: no face encoder", ErrMissingConfig)
	}

	logState("detect", logger.Fields{"bytes": len(frame)})
	resp, err := s.encoder.DetectFaces(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoderFailed, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrEncoderFailed)
	}

	switch n := len(resp.Faces); {
	case n == 0:
		logState("reject", logger.Fields{"faces": 0})
		return nil, ErrNoFace
	case n > 1:
		logState("reject", logger.Fields{"faces": n})
		return nil, fmt.Errorf("%w: %d faces", ErrMultipleFaces, n)
	}

	logState("encode", logger.Fields{"dim": len(resp.Faces[0].Embedding)})
	if len(resp.Faces[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding", ErrEncoderFailed)
	}
	return resp.Faces[0].Embedding, nil
}

func logState(state string, fields logger.Fields) {
	if fields == nil {
		fields = logger.Fields{}
	}
	fields["state"] = state
	logger.Debug(fields, "recognition flow")
}
