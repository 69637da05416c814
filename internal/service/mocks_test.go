package service

import (
	"testing"
	"unicode/utf8"

	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/protocol"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport mocks the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

// Sent decodes every frame handed to Send, in order.
func (m *MockTransport) Sent(t *testing.T) []protocol.Message {
	t.Helper()
	var out []protocol.Message
	for _, call := range m.Calls {
		if call.Method != "Send" {
			continue
		}
		msg, err := protocol.DecodeOutbound(call.Arguments.Get(0).([]byte))
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

// SentOfType filters Sent by message type.
func (m *MockTransport) SentOfType(t *testing.T, typ string) []protocol.Message {
	t.Helper()
	var out []protocol.Message
	for _, msg := range m.Sent(t) {
		if msg.Type() == typ {
			out = append(out, msg)
		}
	}
	return out
}

// fakeSurface records what the session asked it to show. Cards are
// 10px per character wide and 20px high.
type fakeSurface struct {
	resets   int
	visible  domain.Phase
	errMsg   string
	inputs   map[string]string
	people   []domain.Participant
	lists    map[domain.Feeling][]string
	cards    map[string]geometry.Point
	colors   map[string]string
	viewport geometry.Viewport
	origin   geometry.Point

	voting    []domain.Cluster
	mine      map[int]int
	remaining int
	status    []domain.Participant

	discussion []domain.Cluster
	actions    []string
}

func newFakeSurface() *fakeSurface {
	f := &fakeSurface{inputs: make(map[string]string)}
	f.Reset()
	return f
}

func (f *fakeSurface) Reset() {
	f.resets++
	f.visible = ""
	f.errMsg = ""
	f.people = nil
	f.lists = make(map[domain.Feeling][]string)
	f.cards = make(map[string]geometry.Point)
	f.colors = make(map[string]string)
	f.voting, f.mine, f.remaining, f.status = nil, nil, 0, nil
	f.discussion, f.actions = nil, nil
}

func (f *fakeSurface) ShowView(phase domain.Phase) { f.visible = phase }
func (f *fakeSurface) ShowError(msg string)        { f.errMsg = msg }
func (f *fakeSurface) Input(field string) string   { return f.inputs[field] }
func (f *fakeSurface) ClearInput(field string)     { delete(f.inputs, field) }

func (f *fakeSurface) ShowParticipants(people []domain.Participant) {
	f.people = append([]domain.Participant(nil), people...)
}

func (f *fakeSurface) ShowTopics(feeling domain.Feeling, texts []string) {
	f.lists[feeling] = append([]string(nil), texts...)
}

func (f *fakeSurface) CardSize(text string) geometry.Size {
	return geometry.Size{Width: float64(10 * utf8.RuneCountInString(text)), Height: 20}
}

func (f *fakeSurface) PlaceCard(text string, pos geometry.Point) { f.cards[text] = pos }
func (f *fakeSurface) SetCardColor(text, color string)          { f.colors[text] = color }
func (f *fakeSurface) Viewport() geometry.Viewport              { return f.viewport }
func (f *fakeSurface) WorkspaceOrigin() geometry.Point          { return f.origin }

func (f *fakeSurface) ShowVotingClusters(clusters []domain.Cluster, mine map[int]int, remaining int) {
	f.voting = append([]domain.Cluster(nil), clusters...)
	f.mine = mine
	f.remaining = remaining
}

func (f *fakeSurface) ShowVoteStatus(people []domain.Participant) {
	f.status = append([]domain.Participant(nil), people...)
}

func (f *fakeSurface) ShowDiscussion(clusters []domain.Cluster) {
	f.discussion = append([]domain.Cluster(nil), clusters...)
}

func (f *fakeSurface) ShowActions(actions []string) {
	f.actions = append([]string(nil), actions...)
}
