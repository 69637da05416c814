package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned for frames that are not a JSON object with a
	// type, or whose fields do not decode.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownType is returned for a type this side does not accept.
	ErrUnknownType = errors.New("unknown message type")
)

type decodeFunc func([]byte) (Message, error)

var inbound = map[string]decodeFunc{
	TypeInit:        decodeAs[Init],
	TypeJoin:        decodeAs[Join],
	TypeAddTopic:    decodeAs[AddTopic],
	TypeMoveTopic:   decodeAs[MoveTopic],
	TypeUpdateVotes: decodeAs[UpdateVotes],
	TypeAddAction:   decodeAs[AddAction],
}

var outbound = map[string]decodeFunc{
	TypeJoin:           decodeAs[Join],
	TypeStart:          decodeAs[Start],
	TypeAddTopic:       decodeAs[AddTopic],
	TypeGoToGrouping:   decodeAs[GoToGrouping],
	TypeMoveTopic:      decodeAs[MoveTopic],
	TypeGoToVoting:     decodeAs[GoToVoting],
	TypeSetVotes:       decodeAs[SetVotes],
	TypeGoToDiscussion: decodeAs[GoToDiscussion],
	TypeAddAction:      decodeAs[AddAction],
}

// Encode renders msg as a flat JSON object with its type discriminator.
func Encode(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, errors.New("encode: nil message")
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Type(), err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Type(), err)
	}
	typ, _ := json.Marshal(msg.Type())
	fields["type"] = typ

	return json.Marshal(fields)
}

// Decode parses a message received from the session.
func Decode(data []byte) (Message, error) {
	return decode(data, inbound)
}

// DecodeOutbound parses a message a client sends to the session.
func DecodeOutbound(data []byte) (Message, error) {
	return decode(data, outbound)
}

func decode(data []byte, accepted map[string]decodeFunc) (Message, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if envelope.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	fn, ok := accepted[envelope.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}
	return fn(data)
}

func decodeAs[T Message](data []byte) (Message, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, msg.Type(), err)
	}
	return msg, nil
}
