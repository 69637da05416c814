package service

import (
	"fmt"

	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/protocol"
)

// AddTopic submits an idea under feeling. An empty text falls back to the
// feeling's input draft. The topic is listed right away; the server's echo
// of it is not listed twice.
func (s *Session) AddTopic(feeling domain.Feeling, text string) error {
	if err := s.require(domain.PhaseBrainstorming); err != nil {
		return err
	}
	if _, err := domain.ParseFeeling(string(feeling)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	field := TopicField(feeling)
	text, err := s.text(text, field)
	if err != nil {
		return err
	}

	if s.addTopic(feeling, text) {
		s.surface.ShowTopics(feeling, s.topics[feeling])
	}
	s.surface.ClearInput(field)
	return s.send(protocol.AddTopic{List: string(feeling), Text: text})
}

// GoToGrouping asks the server to move on to grouping.
func (s *Session) GoToGrouping() error {
	if err := s.require(domain.PhaseBrainstorming); err != nil {
		return err
	}
	return s.send(protocol.GoToGrouping{})
}

func (s *Session) handleAddTopic(m protocol.AddTopic) error {
	if err := s.expect(domain.PhaseBrainstorming, m); err != nil {
		return err
	}
	feeling, err := domain.ParseFeeling(m.List)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if m.Text == "" {
		return fmt.Errorf("%w: empty topic", ErrInvalidMessage)
	}

	if s.addTopic(feeling, m.Text) {
		s.surface.ShowTopics(feeling, s.topics[feeling])
	}
	return nil
}

// addTopic lists text under feeling unless it is already there.
func (s *Session) addTopic(feeling domain.Feeling, text string) bool {
	for _, existing := range s.topics[feeling] {
		if existing == text {
			return false
		}
	}
	s.topics[feeling] = append(s.topics[feeling], text)
	return true
}
