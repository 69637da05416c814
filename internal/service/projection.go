package service

import (
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
)

// Projection is a copy of what this client currently believes about the
// session.
type Projection struct {
	Phase     domain.Phase                `json:"phase"`
	Name      string                      `json:"name,omitempty"`
	Connected bool                        `json:"connected"`
	People    []domain.Participant        `json:"people"`
	Topics    map[domain.Feeling][]string `json:"topics"`
	Positions map[string]geometry.Point   `json:"positions,omitempty"`
	Groups    map[string]int              `json:"groups,omitempty"`
	Dragging  string                      `json:"dragging,omitempty"`
	Clusters  []domain.Cluster            `json:"clusters"`
	Votes     []int                       `json:"votes"`
	Actions   []string                    `json:"actions"`
}

// Projection returns a snapshot of the session state.
func (s *Session) Projection() Projection {
	p := Projection{
		Phase:     s.phase,
		Name:      s.name,
		Connected: s.disconnected == nil,
		People:    append([]domain.Participant{}, s.people...),
		Topics:    make(map[domain.Feeling][]string, len(s.topics)),
		Dragging:  s.dragging,
		Clusters:  append([]domain.Cluster{}, s.clusters...),
		Votes:     append([]int{}, s.votes...),
		Actions:   append([]string{}, s.actions...),
	}
	for f, texts := range s.topics {
		p.Topics[f] = append([]string(nil), texts...)
	}

	if keys := s.engine.Keys(); len(keys) > 0 {
		p.Positions = make(map[string]geometry.Point, len(keys))
		p.Groups = make(map[string]int)
		for _, k := range keys {
			p.Positions[k], _ = s.engine.Position(k)
			if id, ok := s.engine.ClusterOf(k); ok {
				p.Groups[k] = int(id)
			}
		}
	}
	return p
}
