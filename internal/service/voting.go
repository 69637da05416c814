package service

import (
	"fmt"

	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/protocol"
	"github.com/dbenamy/hack-retro/internal/votes"
)

// Vote puts one more of this participant's votes on clusterID. A vote over
// budget is a silent no-op and reports false.
func (s *Session) Vote(clusterID int) (bool, error) {
	if err := s.requireCluster(clusterID); err != nil {
		return false, err
	}
	next, ok := votes.Increment(clusterID, s.votes)
	if !ok {
		s.log.Debug().Int("cluster", clusterID).Msg("vote budget used up")
		return false, nil
	}
	return true, s.setVotes(next)
}

// Unvote takes back one vote from clusterID, if there is one.
func (s *Session) Unvote(clusterID int) (bool, error) {
	if err := s.requireCluster(clusterID); err != nil {
		return false, err
	}
	next, ok := votes.Decrement(clusterID, s.votes)
	if !ok {
		return false, nil
	}
	return true, s.setVotes(next)
}

// Votes returns the cluster ids this participant voted for.
func (s *Session) Votes() []int {
	return append([]int(nil), s.votes...)
}

// FinishVoting asks the server to move on to discussion.
func (s *Session) FinishVoting() error {
	if err := s.require(domain.PhaseVoting); err != nil {
		return err
	}
	return s.send(protocol.GoToDiscussion{Votes: s.Votes()})
}

// setVotes replaces the local vote list and resends all of it.
func (s *Session) setVotes(next []int) error {
	s.votes = next
	s.renderVoting()
	return s.send(protocol.SetVotes{Votes: s.Votes()})
}

func (s *Session) requireCluster(clusterID int) error {
	if err := s.require(domain.PhaseVoting); err != nil {
		return err
	}
	for _, c := range s.clusters {
		if c.ID == clusterID {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnknownCluster, clusterID)
}

func (s *Session) renderVoting() {
	s.surface.ShowVotingClusters(s.clusters, votes.Tally(s.votes), votes.Remaining(s.votes))
}

func (s *Session) handleUpdateVotes(m protocol.UpdateVotes) error {
	if err := s.expect(domain.PhaseVoting, m); err != nil {
		return err
	}
	s.people = append([]domain.Participant(nil), m.People...)
	s.surface.ShowVoteStatus(s.people)
	return nil
}
