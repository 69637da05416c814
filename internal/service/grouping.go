package service

import (
	"fmt"

	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/protocol"
)

// startGrouping lays out the cards in payload order. Each card is clustered
// against the cards placed before it, as if it had just been dropped there.
func (s *Session) startGrouping(topics []domain.Topic) {
	colors := s.engine.Colors()
	for _, t := range topics {
		if s.engine.Tracked(t.Text) {
			s.log.Warn().Str("topic", t.Text).Msg("duplicate topic text, keeping the first card")
			continue
		}
		s.engine.Track(t.Text, t.Position(), s.surface.CardSize(t.Text))
		s.surface.PlaceCard(t.Text, t.Position())
		colors, _ = s.engine.OnTopicMoved(t.Text, t.Position())
	}
	s.applyColors(colors)
}

// DragStart begins a local drag of text. Moves the server reports for this
// topic are ignored until the drag ends.
func (s *Session) DragStart(text string) error {
	if err := s.require(domain.PhaseGrouping); err != nil {
		return err
	}
	if !s.engine.Tracked(text) {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, text)
	}
	s.dragging = text
	s.throttle.Reset()
	return nil
}

// DragMove handles one frame of a drag. The card moves locally on every
// frame; the position is sent at most once per throttle window.
func (s *Session) DragMove(text string, frame domain.DragFrame) error {
	pos, err := s.dragPosition(text, frame)
	if err != nil {
		return err
	}
	s.moveCard(text, pos)

	if !s.throttle.TryEmit(s.clock()) {
		return nil
	}
	return s.send(protocol.MoveTopic{Text: text, X: pos.X, Y: pos.Y})
}

// DragEnd drops the card and always sends its final position.
func (s *Session) DragEnd(text string, frame domain.DragFrame) error {
	pos, err := s.dragPosition(text, frame)
	if err != nil {
		return err
	}
	s.moveCard(text, pos)

	s.dragging = ""
	s.throttle.Flush()
	return s.send(protocol.MoveTopic{Text: text, X: pos.X, Y: pos.Y})
}

// Dragging returns the topic being dragged locally, if any.
func (s *Session) Dragging() string {
	return s.dragging
}

// GoToVoting sends the partition of every card. Unclustered cards go as
// singletons; the board itself is left as it is until the server answers.
func (s *Session) GoToVoting() error {
	if err := s.require(domain.PhaseGrouping); err != nil {
		return err
	}
	return s.send(protocol.GoToVoting{Clusters: s.engine.Partition()})
}

func (s *Session) handleMoveTopic(m protocol.MoveTopic) error {
	if err := s.expect(domain.PhaseGrouping, m); err != nil {
		return err
	}
	if s.dragging != "" && m.Text == s.dragging {
		s.log.Debug().Str("topic", m.Text).Msg("ignoring echo of local drag")
		return nil
	}
	if !s.engine.Tracked(m.Text) {
		return fmt.Errorf("%w: %q", ErrUnknownTopic, m.Text)
	}

	s.moveCard(m.Text, geometry.Point{X: m.X, Y: m.Y})
	return nil
}

// dragPosition converts a gesture frame into session coordinates.
func (s *Session) dragPosition(text string, frame domain.DragFrame) (geometry.Point, error) {
	if err := s.require(domain.PhaseGrouping); err != nil {
		return geometry.Point{}, err
	}
	if s.dragging != text {
		return geometry.Point{}, fmt.Errorf("%w: %q", ErrNotDragging, text)
	}

	size := s.surface.CardSize(text)
	rect := geometry.Rect{
		Left:   frame.Left,
		Top:    frame.Top,
		Right:  frame.Left + size.Width,
		Bottom: frame.Top + size.Height,
	}
	page := geometry.PageCoordinates(rect, s.surface.Viewport())
	return page.Sub(s.surface.WorkspaceOrigin()), nil
}

func (s *Session) moveCard(text string, pos geometry.Point) {
	colors, ok := s.engine.OnTopicMoved(text, pos)
	if !ok {
		return
	}
	s.surface.PlaceCard(text, pos)
	s.applyColors(colors)
}

func (s *Session) applyColors(colors map[string]string) {
	for _, text := range s.engine.Keys() {
		s.surface.SetCardColor(text, colors[text])
	}
}
