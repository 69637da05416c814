package service

import (
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/protocol"
)

// Join announces this participant. It can only be done once per client.
func (s *Session) Join(name string) error {
	if err := s.require(domain.PhaseJoining); err != nil {
		return err
	}
	if s.name != "" {
		return ErrAlreadyJoined
	}
	name, err := s.text(name, FieldName)
	if err != nil {
		return err
	}

	if err := s.send(protocol.Join{Name: name}); err != nil {
		return err
	}
	s.name = name
	s.surface.ClearInput(FieldName)
	return nil
}

// Start asks the server to begin brainstorming.
func (s *Session) Start() error {
	if err := s.require(domain.PhaseJoining); err != nil {
		return err
	}
	return s.send(protocol.Start{})
}

func (s *Session) handleJoin(m protocol.Join) error {
	if err := s.expect(domain.PhaseJoining, m); err != nil {
		return err
	}
	if m.Name == "" {
		return ErrInvalidMessage
	}
	for _, p := range s.people {
		if p.Name == m.Name {
			s.log.Debug().Str("name", m.Name).Msg("participant already listed")
			return nil
		}
	}

	s.people = append(s.people, domain.Participant{Name: m.Name})
	s.surface.ShowParticipants(s.people)
	return nil
}
