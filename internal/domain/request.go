package domain

// Text fields left empty fall back to the draft typed into the matching
// input on the surface.

// JoinRequest represents a participant submitting their name
type JoinRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// TopicCreate represents a brainstormed idea
type TopicCreate struct {
	List string `json:"list" validate:"required,oneof=happy sad confused"`
	Text string `json:"text" validate:"max=200"`
}

// DragFrame is the viewport-relative top-left corner of a card being
// dragged, as reported by the surface for one gesture frame
type DragFrame struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// ActionCreate represents an action item typed during discussion
type ActionCreate struct {
	Text string `json:"text" validate:"max=500"`
}

// InputUpdate replaces the draft in one input field
type InputUpdate struct {
	Text string `json:"text" validate:"max=500"`
}
