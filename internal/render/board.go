package render

import (
	"sort"
	"unicode/utf8"

	"github.com/dbenamy/hack-retro/internal/clustering"
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/votes"
)

// AllVotesIn is shown next to participants who used their whole budget.
const AllVotesIn = "All votes in"

// Layout controls how cards are measured and where the grouping workspace
// sits on the page.
type Layout struct {
	CharWidth       float64
	CardHeight      float64
	CardPadding     float64
	WorkspaceOrigin geometry.Point
}

// DefaultLayout approximates a browser card with a 2px border.
func DefaultLayout() Layout {
	return Layout{CharWidth: 8, CardHeight: 24, CardPadding: 4}
}

// Card is a topic box in the grouping workspace.
type Card struct {
	Text     string         `json:"text"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
	Color    string         `json:"color"`
}

// VotingCluster is one votable cluster and this participant's votes on it.
type VotingCluster struct {
	ID      int      `json:"id"`
	Topics  []string `json:"topics"`
	MyVotes int      `json:"my_votes"`
}

// DiscussionCluster is one cluster in the discussion list.
type DiscussionCluster struct {
	ID     int      `json:"id"`
	Label  string   `json:"label"`
	Topics []string `json:"topics"`
}

// View is everything currently on screen.
type View struct {
	Visible        domain.Phase                `json:"visible"`
	Error          string                      `json:"error,omitempty"`
	Inputs         map[string]string           `json:"inputs,omitempty"`
	Participants   []string                    `json:"participants,omitempty"`
	Lists          map[domain.Feeling][]string `json:"lists,omitempty"`
	Cards          []Card                      `json:"cards,omitempty"`
	VotingClusters []VotingCluster             `json:"voting_clusters,omitempty"`
	VotesLeft      int                         `json:"votes_left"`
	VoteStatus     map[string]string           `json:"vote_status,omitempty"`
	Discussion     []DiscussionCluster         `json:"discussion,omitempty"`
	Actions        []string                    `json:"actions,omitempty"`
}

// Board is a headless rendering surface. It keeps the view model a browser
// would otherwise draw. It is not safe for concurrent use.
type Board struct {
	layout   Layout
	viewport geometry.Viewport
	view     View
	cards    map[string]*Card
}

// NewBoard creates an empty board.
func NewBoard(layout Layout) *Board {
	if layout.CharWidth <= 0 || layout.CardHeight <= 0 {
		d := DefaultLayout()
		layout.CharWidth, layout.CardHeight = d.CharWidth, d.CardHeight
	}
	b := &Board{layout: layout}
	b.Reset()
	return b
}

// Reset clears everything except typed input drafts and the viewport.
func (b *Board) Reset() {
	inputs := b.view.Inputs
	if inputs == nil {
		inputs = make(map[string]string)
	}
	b.view = View{
		Inputs: inputs,
		Lists:  make(map[domain.Feeling][]string),
	}
	b.cards = make(map[string]*Card)
}

// ShowView makes phase the only visible view.
func (b *Board) ShowView(phase domain.Phase) {
	b.view.Visible = phase
	b.view.Error = ""
}

func (b *Board) ShowError(msg string) {
	b.view.Error = msg
}

// Type stores a draft in an input field.
func (b *Board) Type(field, text string) {
	b.view.Inputs[field] = text
}

func (b *Board) Input(field string) string {
	return b.view.Inputs[field]
}

func (b *Board) ClearInput(field string) {
	delete(b.view.Inputs, field)
}

func (b *Board) ShowParticipants(people []domain.Participant) {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	b.view.Participants = names
}

func (b *Board) ShowTopics(feeling domain.Feeling, texts []string) {
	b.view.Lists[feeling] = append([]string(nil), texts...)
}

// CardSize measures a card from its text length.
func (b *Board) CardSize(text string) geometry.Size {
	return geometry.Size{
		Width:  float64(utf8.RuneCountInString(text))*b.layout.CharWidth + 2*b.layout.CardPadding,
		Height: b.layout.CardHeight,
	}
}

// PlaceCard creates the card on first use and moves it afterwards.
func (b *Board) PlaceCard(text string, pos geometry.Point) {
	c, ok := b.cards[text]
	if !ok {
		c = &Card{Text: text, Size: b.CardSize(text), Color: clustering.NeutralColor}
		b.cards[text] = c
	}
	c.Position = pos
}

func (b *Board) SetCardColor(text, color string) {
	if c, ok := b.cards[text]; ok {
		c.Color = color
	}
}

// Card returns a copy of the card for text.
func (b *Board) Card(text string) (Card, bool) {
	c, ok := b.cards[text]
	if !ok {
		return Card{}, false
	}
	return *c, true
}

// Scroll sets the viewport the next drag frames are measured in.
func (b *Board) Scroll(v geometry.Viewport) {
	b.viewport = v
}

func (b *Board) Viewport() geometry.Viewport {
	return b.viewport
}

func (b *Board) WorkspaceOrigin() geometry.Point {
	return b.layout.WorkspaceOrigin
}

func (b *Board) ShowVotingClusters(clusters []domain.Cluster, mine map[int]int, remaining int) {
	out := make([]VotingCluster, len(clusters))
	for i, c := range clusters {
		out[i] = VotingCluster{
			ID:      c.ID,
			Topics:  append([]string(nil), c.Topics...),
			MyVotes: mine[c.ID],
		}
	}
	b.view.VotingClusters = out
	b.view.VotesLeft = remaining
}

func (b *Board) ShowVoteStatus(people []domain.Participant) {
	status := make(map[string]string, len(people))
	for _, p := range people {
		if votes.Complete(p.NumVotes) {
			status[p.Name] = AllVotesIn
		} else {
			status[p.Name] = ""
		}
	}
	b.view.VoteStatus = status
}

func (b *Board) ShowDiscussion(clusters []domain.Cluster) {
	out := make([]DiscussionCluster, len(clusters))
	for i, c := range clusters {
		out[i] = DiscussionCluster{
			ID:     c.ID,
			Label:  domain.VoteLabel(c.Votes),
			Topics: append([]string(nil), c.Topics...),
		}
	}
	b.view.Discussion = out
}

func (b *Board) ShowActions(actions []string) {
	b.view.Actions = append([]string(nil), actions...)
}

// Snapshot returns a copy of the view with cards sorted by text.
func (b *Board) Snapshot() View {
	v := b.view
	v.Inputs = make(map[string]string, len(b.view.Inputs))
	for k, val := range b.view.Inputs {
		v.Inputs[k] = val
	}
	v.Lists = make(map[domain.Feeling][]string, len(b.view.Lists))
	for k, val := range b.view.Lists {
		v.Lists[k] = append([]string(nil), val...)
	}
	v.Cards = make([]Card, 0, len(b.cards))
	for _, c := range b.cards {
		v.Cards = append(v.Cards, *c)
	}
	sort.Slice(v.Cards, func(i, j int) bool { return v.Cards[i].Text < v.Cards[j].Text })
	return v
}
