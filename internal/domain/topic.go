package domain

import (
	"fmt"

	"github.com/dbenamy/hack-retro/internal/geometry"
)

// Feeling is the category a topic was brainstormed under
type Feeling string

const (
	FeelingHappy    Feeling = "happy"
	FeelingSad      Feeling = "sad"
	FeelingConfused Feeling = "confused"
)

// Feelings lists the categories in display order
var Feelings = []Feeling{FeelingHappy, FeelingSad, FeelingConfused}

// ParseFeeling validates a list name
func ParseFeeling(s string) (Feeling, error) {
	for _, f := range Feelings {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feeling %q", s)
}

// Topic is a single idea card. Text is its identity within the session.
type Topic struct {
	Text    string  `json:"text"`
	Feeling Feeling `json:"feeling"`
	X       int     `json:"x"`
	Y       int     `json:"y"`
}

// Position returns the session-relative position of the card
func (t Topic) Position() geometry.Point {
	return geometry.Point{X: t.X, Y: t.Y}
}
