package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dbenamy/hack-retro/internal/api/response"
	"github.com/dbenamy/hack-retro/internal/domain"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/render"
	"github.com/dbenamy/hack-retro/internal/service"
)

var validate = validator.New()

// State is what every session endpoint replies with.
type State struct {
	Session service.Projection `json:"session"`
	View    render.View        `json:"view"`
}

// VoteResult reports whether a vote change was accepted.
type VoteResult struct {
	Accepted bool  `json:"accepted"`
	Votes    []int `json:"votes"`
	State    State `json:"state"`
}

// SessionHandler drives the retro session. Every call runs on the event
// loop that owns the session and the board.
type SessionHandler struct {
	loop    *service.Loop
	session *service.Session
	board   *render.Board
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(loop *service.Loop, session *service.Session, board *render.Board) *SessionHandler {
	return &SessionHandler{loop: loop, session: session, board: board}
}

// State returns the session projection and the rendered view
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func() error { return nil })
}

// Join announces this participant
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var input domain.JoinRequest
	if !decode(w, r, &input, true) {
		return
	}
	h.run(w, r, func() error { return h.session.Join(input.Name) })
}

// Start begins brainstorming
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.session.Start)
}

// AddTopic submits a topic under a feeling
func (h *SessionHandler) AddTopic(w http.ResponseWriter, r *http.Request) {
	var input domain.TopicCreate
	if !decode(w, r, &input, false) {
		return
	}
	h.run(w, r, func() error {
		return h.session.AddTopic(domain.Feeling(input.List), input.Text)
	})
}

// GoToGrouping moves the retro on to grouping
func (h *SessionHandler) GoToGrouping(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.session.GoToGrouping)
}

// DragStart begins dragging a card
func (h *SessionHandler) DragStart(w http.ResponseWriter, r *http.Request) {
	text, ok := topicParam(w, r)
	if !ok {
		return
	}
	h.run(w, r, func() error { return h.session.DragStart(text) })
}

// DragMove reports one frame of a drag
func (h *SessionHandler) DragMove(w http.ResponseWriter, r *http.Request) {
	text, ok := topicParam(w, r)
	if !ok {
		return
	}
	var frame domain.DragFrame
	if !decode(w, r, &frame, false) {
		return
	}
	h.run(w, r, func() error { return h.session.DragMove(text, frame) })
}

// DragEnd drops a card
func (h *SessionHandler) DragEnd(w http.ResponseWriter, r *http.Request) {
	text, ok := topicParam(w, r)
	if !ok {
		return
	}
	var frame domain.DragFrame
	if !decode(w, r, &frame, false) {
		return
	}
	h.run(w, r, func() error { return h.session.DragEnd(text, frame) })
}

// Scroll updates the viewport drag frames are measured in
func (h *SessionHandler) Scroll(w http.ResponseWriter, r *http.Request) {
	var v geometry.Viewport
	if !decode(w, r, &v, false) {
		return
	}
	h.run(w, r, func() error {
		h.board.Scroll(v)
		return nil
	})
}

// TypeInput replaces the draft in an input field
func (h *SessionHandler) TypeInput(w http.ResponseWriter, r *http.Request) {
	field := chi.URLParam(r, "field")
	if !validField(field) {
		response.NotFound(w, "unknown input field")
		return
	}
	var input domain.InputUpdate
	if !decode(w, r, &input, false) {
		return
	}
	h.run(w, r, func() error {
		h.board.Type(field, input.Text)
		return nil
	})
}

// GoToVoting finalizes the clusters
func (h *SessionHandler) GoToVoting(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.session.GoToVoting)
}

// Vote adds one vote to a cluster
func (h *SessionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.session.Vote)
}

// Unvote takes one vote back from a cluster
func (h *SessionHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.session.Unvote)
}

// FinishVoting moves the retro on to discussion
func (h *SessionHandler) FinishVoting(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.session.FinishVoting)
}

// AddAction submits an action item
func (h *SessionHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	var input domain.ActionCreate
	if !decode(w, r, &input, true) {
		return
	}
	h.run(w, r, func() error { return h.session.AddAction(input.Text) })
}

func (h *SessionHandler) vote(w http.ResponseWriter, r *http.Request, fn func(int) (bool, error)) {
	clusterID, err := strconv.Atoi(chi.URLParam(r, "clusterID"))
	if err != nil {
		response.BadRequest(w, "invalid cluster ID")
		return
	}

	var result VoteResult
	var opErr error
	err = h.loop.Do(r.Context(), func() {
		result.Accepted, opErr = fn(clusterID)
		result.Votes = h.session.Votes()
		result.State = h.state()
	})
	if err != nil {
		response.Unavailable(w, "session is not running")
		return
	}
	if opErr != nil {
		writeError(w, opErr)
		return
	}
	response.OK(w, result)
}

// run executes op on the loop and replies with the resulting state.
func (h *SessionHandler) run(w http.ResponseWriter, r *http.Request, op func() error) {
	var state State
	var opErr error
	err := h.loop.Do(r.Context(), func() {
		opErr = op()
		state = h.state()
	})
	if err != nil {
		response.Unavailable(w, "session is not running")
		return
	}
	if opErr != nil {
		writeError(w, opErr)
		return
	}
	response.OK(w, state)
}

func (h *SessionHandler) state() State {
	return State{Session: h.session.Projection(), View: h.board.Snapshot()}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDisconnected),
		errors.Is(err, service.ErrFrameDropped):
		response.Unavailable(w, err.Error())
	case errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrNotDragging):
		response.Conflict(w, err.Error())
	case errors.Is(err, service.ErrUnknownTopic),
		errors.Is(err, service.ErrUnknownCluster):
		response.NotFound(w, err.Error())
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, service.ErrInvalidMessage):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, err.Error())
	}
}

// topicParam returns the topic text from the path. chi matches on the raw
// path when it differs from the decoded one, so the param is then still
// escaped.
func topicParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	text := chi.URLParam(r, "text")
	if r.URL.RawPath != "" {
		var err error
		if text, err = url.PathUnescape(text); err != nil {
			response.BadRequest(w, "invalid topic")
			return "", false
		}
	}
	if text == "" {
		response.BadRequest(w, "invalid topic")
		return "", false
	}
	return text, true
}

func validField(field string) bool {
	if field == service.FieldName || field == service.FieldAction {
		return true
	}
	for _, f := range domain.Feelings {
		if field == service.TopicField(f) {
			return true
		}
	}
	return false
}

// decode reads and validates a JSON body. An empty body is accepted when
// optional is set.
func decode(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			response.BadRequest(w, "invalid request body")
			return false
		}
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make(map[string]string)
			for _, e := range validationErrors {
				switch e.Tag() {
				case "required":
					fields[e.Field()] = "field is required"
				case "max":
					fields[e.Field()] = "must be at most " + e.Param() + " characters"
				case "oneof":
					fields[e.Field()] = "must be one of: " + e.Param()
				default:
					fields[e.Field()] = "validation failed on " + e.Tag()
				}
			}
			response.BadRequest(w, fields)
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}
	return true
}
