package protocol

import "github.com/dbenamy/hack-retro/internal/domain"

// Message type discriminators.
//
// Client -> Server:
//
//	join{name} start{} addTopic{list, text} goToGrouping{}
//	moveTopic{text, x, y} goToVoting{clusters} setVotes{votes}
//	goToDiscussion{votes} addAction{text}
//
// Server -> Client:
//
//	init{state, people?, topics?, clusters?, actions?} join{name}
//	addTopic{list, text} moveTopic{text, x, y} updateVotes{people}
//	addAction{text}
const (
	TypeInit           = "init"
	TypeJoin           = "join"
	TypeStart          = "start"
	TypeAddTopic       = "addTopic"
	TypeGoToGrouping   = "goToGrouping"
	TypeMoveTopic      = "moveTopic"
	TypeGoToVoting     = "goToVoting"
	TypeSetVotes       = "setVotes"
	TypeGoToDiscussion = "goToDiscussion"
	TypeUpdateVotes    = "updateVotes"
	TypeAddAction      = "addAction"
)

// Message is a single action exchanged with the session.
type Message interface {
	Type() string
}

// Init carries the full session state. It supersedes everything the client
// knew before.
type Init struct {
	State    string               `json:"state"`
	People   []domain.Participant `json:"people,omitempty"`
	Topics   []domain.Topic       `json:"topics,omitempty"`
	Clusters []domain.Cluster     `json:"clusters,omitempty"`
	Actions  []string             `json:"actions,omitempty"`
}

type Join struct {
	Name string `json:"name"`
}

type Start struct{}

type AddTopic struct {
	List string `json:"list"`
	Text string `json:"text"`
}

type GoToGrouping struct{}

type MoveTopic struct {
	Text string `json:"text"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// GoToVoting carries the final partition of topics into clusters.
type GoToVoting struct {
	Clusters [][]string `json:"clusters"`
}

// SetVotes carries the complete list of the sender's votes.
type SetVotes struct {
	Votes []int `json:"votes"`
}

type GoToDiscussion struct {
	Votes []int `json:"votes,omitempty"`
}

type UpdateVotes struct {
	People []domain.Participant `json:"people"`
}

type AddAction struct {
	Text string `json:"text"`
}

func (Init) Type() string           { return TypeInit }
func (Join) Type() string           { return TypeJoin }
func (Start) Type() string          { return TypeStart }
func (AddTopic) Type() string       { return TypeAddTopic }
func (GoToGrouping) Type() string   { return TypeGoToGrouping }
func (MoveTopic) Type() string      { return TypeMoveTopic }
func (GoToVoting) Type() string     { return TypeGoToVoting }
func (SetVotes) Type() string       { return TypeSetVotes }
func (GoToDiscussion) Type() string { return TypeGoToDiscussion }
func (UpdateVotes) Type() string    { return TypeUpdateVotes }
func (AddAction) Type() string      { return TypeAddAction }
