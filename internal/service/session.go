package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dbenamy/hack-retro/internal/clustering"
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/protocol"
	"github.com/dbenamy/hack-retro/internal/throttle"
	"github.com/rs/zerolog"
)

var (
	ErrWrongPhase     = errors.New("not allowed in the current phase")
	ErrAlreadyJoined  = errors.New("already joined")
	ErrEmptyText      = errors.New("text is required")
	ErrUnknownTopic   = errors.New("unknown topic")
	ErrUnknownCluster = errors.New("unknown cluster")
	ErrNotDragging    = errors.New("topic is not being dragged")
	ErrDisconnected   = errors.New("session connection lost")
	ErrFrameDropped   = errors.New("frame dropped")
	ErrInvalidMessage = errors.New("invalid message")
)

// Input fields the surface keeps drafts in.
const (
	FieldName   = "name"
	FieldAction = "discussion-action-text"
)

// TopicField is the input a feeling's topics are typed into.
func TopicField(f domain.Feeling) string {
	return string(f) + "-item"
}

// Transport hands encoded frames to the session connection. Send must not
// block. An error with a Temporary method returning true means only that
// frame was lost; any other error means the connection is gone.
type Transport interface {
	Send(data []byte) error
}

// Surface is everything the session needs from whatever renders it.
type Surface interface {
	Reset()
	ShowView(phase domain.Phase)
	ShowError(msg string)

	Input(field string) string
	ClearInput(field string)

	ShowParticipants(people []domain.Participant)
	ShowTopics(feeling domain.Feeling, texts []string)

	CardSize(text string) geometry.Size
	PlaceCard(text string, pos geometry.Point)
	SetCardColor(text, color string)
	Viewport() geometry.Viewport
	WorkspaceOrigin() geometry.Point

	ShowVotingClusters(clusters []domain.Cluster, mine map[int]int, remaining int)
	ShowVoteStatus(people []domain.Participant)

	ShowDiscussion(clusters []domain.Cluster)
	ShowActions(actions []string)
}

// Option customizes Session construction.
type Option func(*Session)

// WithLogger overrides the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.log = logger
	}
}

// WithClock allows tests to control drag timing.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMoveThrottle sets the minimum gap between two moveTopic frames of
// one drag.
func WithMoveThrottle(window time.Duration) Option {
	return func(s *Session) {
		s.moveWindow = window
	}
}

// Session is this client's projection of a retro. It is not safe for
// concurrent use; run it on a Loop.
type Session struct {
	transport  Transport
	surface    Surface
	log        zerolog.Logger
	clock      func() time.Time
	moveWindow time.Duration

	// name survives init; everything below it is projection.
	name string

	phase        domain.Phase
	disconnected error

	people   []domain.Participant
	topics   map[domain.Feeling][]string
	engine   *clustering.Engine
	dragging string
	throttle *throttle.Throttle
	clusters []domain.Cluster
	votes    []int
	actions  []string
}

// NewSession creates a session that has not yet received init.
func NewSession(transport Transport, surface Surface, opts ...Option) *Session {
	s := &Session{
		transport:  transport,
		surface:    surface,
		log:        zerolog.Nop(),
		clock:      time.Now,
		moveWindow: throttle.DefaultWindow,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.people = nil
	s.topics = make(map[domain.Feeling][]string)
	s.engine = clustering.NewEngine()
	s.dragging = ""
	s.throttle = throttle.New(s.moveWindow)
	s.clusters = nil
	s.votes = nil
	s.actions = nil
}

// Phase returns the phase announced by the last init, or "" before init.
func (s *Session) Phase() domain.Phase {
	return s.phase
}

// Name returns the name this client joined with.
func (s *Session) Name() string {
	return s.name
}

// Receive decodes and applies one frame from the session. Problems are
// logged; the frame is then dropped.
func (s *Session) Receive(data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownType) {
			s.log.Debug().Err(err).Msg("ignoring message")
			return
		}
		s.log.Warn().Err(err).Msg("dropping malformed message")
		return
	}

	if err := s.Handle(msg); err != nil {
		event := s.log.Warn()
		if errors.Is(err, ErrUnknownTopic) || errors.Is(err, ErrUnknownCluster) {
			event = s.log.Error()
		}
		event.Err(err).Str("type", msg.Type()).Msg("dropping message")
	}
}

// Handle applies a decoded message from the session.
func (s *Session) Handle(msg protocol.Message) error {
	switch m := msg.(type) {
	case protocol.Init:
		return s.handleInit(m)
	case protocol.Join:
		return s.handleJoin(m)
	case protocol.AddTopic:
		return s.handleAddTopic(m)
	case protocol.MoveTopic:
		return s.handleMoveTopic(m)
	case protocol.UpdateVotes:
		return s.handleUpdateVotes(m)
	case protocol.AddAction:
		return s.handleAddAction(m)
	default:
		return fmt.Errorf("%w: %s", protocol.ErrUnknownType, msg.Type())
	}
}

// handleInit throws the projection away and rebuilds it from m.
func (s *Session) handleInit(m protocol.Init) error {
	phase, err := domain.ParsePhase(m.State)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if s.phase != "" && phase != s.phase && !s.phase.CanTransitionTo(phase) {
		s.log.Warn().
			Str("from", s.phase.String()).
			Str("to", phase.String()).
			Msg("init skipped or reversed a phase")
	}

	s.reset()
	s.phase = phase
	s.disconnected = nil

	s.people = append([]domain.Participant(nil), m.People...)
	for _, t := range m.Topics {
		if _, err := domain.ParseFeeling(string(t.Feeling)); err != nil {
			s.log.Warn().Err(err).Str("topic", t.Text).Msg("skipping topic")
			continue
		}
		s.addTopic(t.Feeling, t.Text)
	}
	s.clusters = append([]domain.Cluster(nil), m.Clusters...)
	if phase == domain.PhaseDiscussion {
		s.clusters = domain.SortByVotes(s.clusters)
	}
	s.actions = append([]string(nil), m.Actions...)

	s.surface.Reset()
	s.surface.ShowView(phase)

	switch phase {
	case domain.PhaseJoining:
		s.surface.ShowParticipants(s.people)
	case domain.PhaseBrainstorming:
		for _, f := range domain.Feelings {
			s.surface.ShowTopics(f, s.topics[f])
		}
	case domain.PhaseGrouping:
		s.startGrouping(m.Topics)
	case domain.PhaseVoting:
		s.renderVoting()
		s.surface.ShowVoteStatus(s.people)
	case domain.PhaseDiscussion:
		s.surface.ShowDiscussion(s.clusters)
		s.surface.ShowActions(s.actions)
	}

	s.log.Info().
		Str("phase", phase.String()).
		Int("people", len(s.people)).
		Int("topics", len(m.Topics)).
		Int("clusters", len(s.clusters)).
		Msg("session initialized")
	return nil
}

// Disconnected marks the session unusable until the next init.
func (s *Session) Disconnected(err error) {
	if err == nil {
		err = errors.New("connection closed")
	}
	s.disconnected = err
	s.dragging = ""
	s.log.Error().Err(err).Msg("session connection lost")
	s.surface.ShowError("Connection lost: " + err.Error())
}

// Connected reports whether the session can still send.
func (s *Session) Connected() bool {
	return s.disconnected == nil
}

// require checks that a local action may run in phase.
func (s *Session) require(phase domain.Phase) error {
	if s.disconnected != nil {
		return ErrDisconnected
	}
	if s.phase != phase {
		return fmt.Errorf("%w: want %s, in %q", ErrWrongPhase, phase, s.phase)
	}
	return nil
}

// expect checks that an incoming action fits the current phase.
func (s *Session) expect(phase domain.Phase, msg protocol.Message) error {
	if s.phase != phase {
		return fmt.Errorf("%w: %s during %q", ErrWrongPhase, msg.Type(), s.phase)
	}
	return nil
}

// text returns the trimmed value, falling back to the surface draft.
func (s *Session) text(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = strings.TrimSpace(s.surface.Input(field))
	}
	if value == "" {
		return "", ErrEmptyText
	}
	return value, nil
}

func (s *Session) send(msg protocol.Message) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.log.Error().Err(err).Str("type", msg.Type()).Msg("failed to encode message")
		return err
	}
	if err := s.transport.Send(data); err != nil {
		if isTemporary(err) {
			s.log.Warn().Err(err).Str("type", msg.Type()).Msg("dropped outgoing frame")
			return fmt.Errorf("%w: %v", ErrFrameDropped, err)
		}
		s.Disconnected(err)
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	s.log.Debug().Str("type", msg.Type()).Msg("sent")
	return nil
}

func isTemporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}
