package service

import (
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/protocol"
)

// AddAction submits an action item. The list only grows when the server
// sends it back.
func (s *Session) AddAction(text string) error {
	if err := s.require(domain.PhaseDiscussion); err != nil {
		return err
	}
	text, err := s.text(text, FieldAction)
	if err != nil {
		return err
	}
	s.surface.ClearInput(FieldAction)
	return s.send(protocol.AddAction{Text: text})
}

func (s *Session) handleAddAction(m protocol.AddAction) error {
	if err := s.expect(domain.PhaseDiscussion, m); err != nil {
		return err
	}
	if m.Text == "" {
		return ErrInvalidMessage
	}
	s.actions = append(s.actions, m.Text)
	s.surface.ShowActions(s.actions)
	return nil
}
