// Package mock provides mock implementations of the recognition collaborators for testing.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kozaktomas/face-attendance/internal/door"
	"github.com/kozaktomas/face-attendance/internal/encoder"
	"github.com/kozaktomas/face-attendance/internal/notify"
)

// MockEncoder is a mock implementation of recognition.FaceDetector.
// Frames are looked up by content; unknown frames return DefaultFaces.
type MockEncoder struct {
	mu      sync.Mutex
	frames  map[string][][]float32
	calls   int
	lastLen int

	DefaultFaces [][]float32

	// Error injection
	DetectError error
}

// NewMockEncoder creates a new mock encoder
func NewMockEncoder() *MockEncoder {
	return &MockEncoder{frames: make(map[string][][]float32)}
}

// SetFaces sets the encodings returned for a frame
func (m *MockEncoder) SetFaces(frame []byte, faces ...[]float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[string(frame)] = faces
}

// DetectFaces returns the configured faces for imageData
func (m *MockEncoder) DetectFaces(ctx context.Context, imageData []byte) (*encoder.FaceResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastLen = len(imageData)
	if m.DetectError != nil {
		return nil, m.DetectError
	}

	faces, ok := m.frames[string(imageData)]
	if !ok {
		faces = m.DefaultFaces
	}
	resp := &encoder.FaceResponse{FacesCount: len(faces), Model: "mock"}
	for i, emb := range faces {
		resp.Faces = append(resp.Faces, encoder.Face{
			FaceIndex: i,
			Dim:       len(emb),
			Embedding: append([]float32(nil), emb...),
			DetScore:  0.99,
		})
	}
	return resp, nil
}

// Calls returns the number of DetectFaces calls
func (m *MockEncoder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCamera is a mock implementation of camera.Source
type MockCamera struct {
	mu    sync.Mutex
	Frame []byte
	calls int

	// Error injection
	CaptureError error
}

// NewMockCamera creates a camera that always returns frame
func NewMockCamera(frame []byte) *MockCamera {
	return &MockCamera{Frame: frame}
}

// Capture returns the configured frame
func (m *MockCamera) Capture(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.CaptureError != nil {
		return nil, m.CaptureError
	}
	return append([]byte(nil), m.Frame...), nil
}

// SetFrame replaces the frame returned by Capture
func (m *MockCamera) SetFrame(frame []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frame = frame
}

// Calls returns the number of Capture calls
func (m *MockCamera) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockDoor is a mock implementation of recognition.DoorOpener
type MockDoor struct {
	mu    sync.Mutex
	opens int

	// StatusCode simulates a controller response; 0 or 200 means success.
	StatusCode int

	// Error injection
	OpenError error
}

// NewMockDoor creates a door that opens successfully
func NewMockDoor() *MockDoor {
	return &MockDoor{}
}

// Open records the call and returns the configured outcome
func (m *MockDoor) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opens++
	if m.OpenError != nil {
		return m.OpenError
	}
	if m.StatusCode != 0 && m.StatusCode != 200 {
		return fmt.Errorf("%w: HTTP %d", door.ErrOpenFailed, m.StatusCode)
	}
	return nil
}

// Opens returns the number of Open calls
func (m *MockDoor) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mu   sync.Mutex
	sent []notify.Report

	// Error injection
	SendError error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the report
func (m *MockNotifier) Send(ctx context.Context, r notify.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendError != nil {
		return fmt.Errorf("%w: %v", notify.ErrSendFailed, m.SendError)
	}
	m.sent = append(m.sent, r)
	return nil
}

// Sent returns all reports sent so far
func (m *MockNotifier) Sent() []notify.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Report(nil), m.sent...)
}
