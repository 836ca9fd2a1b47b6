// Package app provides application state, the editing session and events.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"pose-editor/internal/image"
	"pose-editor/internal/pose"

	"github.com/google/uuid"
)

// Session is one photo being edited.
type Session struct {
	ID        string
	Started   time.Time
	ImagePath string
	Width     int
	Height    int
	// Image is set when the session was opened from decoded pixels;
	// otherwise the shell loads ImagePath in the background.
	Image *image.Source

	// Detected is the point set produced by detection; the editor's original.
	Detected pose.PointSet
	// Current is the latest committed point set.
	Current pose.PointSet
	// Saved is the point set handed over by the last save, or nil.
	Saved pose.PointSet
}

// Modified reports whether the current points differ from the last save,
// or from detection when nothing was saved yet.
func (s *Session) Modified() bool {
	if s.Saved != nil {
		return !s.Current.Equal(s.Saved)
	}
	return !s.Current.Equal(s.Detected)
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventPointsDetected
	EventPointsChanged
	EventPointsSaved
	EventSessionClosed
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Detector produces keypoints for an image of the given size.
type Detector func(width, height int) pose.PointSet

// State holds the application state: the active session and listeners.
type State struct {
	mu      sync.RWMutex
	session *Session
	detect  Detector

	listeners map[EventType][]EventListener
}

// NewState creates a new application state using the simulated detector.
func NewState() *State {
	return &State{
		detect:    pose.SimulatedDetection,
		listeners: make(map[EventType][]EventListener),
	}
}

// SetDetector replaces the keypoint detector.
func (s *State) SetDetector(d Detector) {
	s.mu.Lock()
	s.detect = d
	s.mu.Unlock()
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Session returns the active session, or nil.
func (s *State) Session() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// OpenImage reads the header of the image at path, starts a new session and
// runs detection on its size. Pixels are not decoded here.
// It emits EventImageLoaded followed by EventPointsDetected.
func (s *State) OpenImage(path string) error {
	info, err := image.Probe(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	s.startSession(&Session{ImagePath: info.Path, Width: info.Width, Height: info.Height})
	return nil
}

// OpenSource starts a new session for an already decoded image.
func (s *State) OpenSource(src *image.Source) {
	s.startSession(&Session{ImagePath: src.Path, Width: src.Width(), Height: src.Height(), Image: src})
}

func (s *State) startSession(sess *Session) {
	sess.ID = uuid.NewString()
	sess.Started = time.Now()

	s.mu.Lock()
	detect := s.detect
	s.session = sess
	s.mu.Unlock()

	log.Printf("Session %s: opened %s (%dx%d)", sess.ID, sess.ImagePath, sess.Width, sess.Height)
	s.Emit(EventImageLoaded, sess)

	points := detect(sess.Width, sess.Height)
	s.mu.Lock()
	sess.Detected = points.Clone()
	sess.Current = points.Clone()
	s.mu.Unlock()

	log.Printf("Session %s: detected %d keypoints", sess.ID, len(points))
	s.Emit(EventPointsDetected, points.Clone())
}

// CommitPoints records a committed edit and emits EventPointsChanged.
func (s *State) CommitPoints(points pose.PointSet) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	s.session.Current = points.Clone()
	s.mu.Unlock()
	s.Emit(EventPointsChanged, points)
}

// SavePoints records points as saved and emits EventPointsSaved.
// With a non-empty path the points are also written there as JSON.
func (s *State) SavePoints(points pose.PointSet, path string) error {
	if path != "" {
		if err := pose.WriteFile(path, points); err != nil {
			return err
		}
	}

	s.mu.Lock()
	if s.session != nil {
		s.session.Current = points.Clone()
		s.session.Saved = points.Clone()
	}
	s.mu.Unlock()

	log.Printf("Points saved: %d keypoints", len(points))
	s.Emit(EventPointsSaved, points)
	return nil
}

// CloseSession discards the active session.
func (s *State) CloseSession() {
	s.mu.Lock()
	had := s.session != nil
	s.session = nil
	s.mu.Unlock()
	if had {
		s.Emit(EventSessionClosed, nil)
	}
}
