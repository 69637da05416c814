package domain

import (
	"bytes"
	"encoding/json"
)

// Participant is a person who joined the retro
type Participant struct {
	Name     string `json:"name"`
	NumVotes int    `json:"numVotes"`
}

// UnmarshalJSON accepts either a bare name or a {name, numVotes} object.
func (p *Participant) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*p = Participant{Name: name}
		return nil
	}

	type plain Participant
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Participant(v)
	return nil
}
