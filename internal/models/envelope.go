package models

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var errMalformedReply = errors.New("malformed node reply: expected a JSON object")

// Envelope is the reply to a single node command: {status, response, error}.
type Envelope struct {
	Status   bool            `json:"status"`
	Response json.RawMessage `json:"response,omitempty"`
	Error    string          `json:"error,omitempty"`

	// Unreachable is set when the node could not be reached or its reply
	// could not be read, as opposed to the node reporting a failure itself.
	Unreachable bool `json:"-"`

	raw []byte
}

// NewEnvelope parses a node reply, keeping the raw bytes for passthrough
func NewEnvelope(raw []byte) (*Envelope, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errMalformedReply
	}
	parsed := gjson.ParseBytes(raw)
	if !parsed.IsObject() {
		return nil, errMalformedReply
	}

	env := &Envelope{
		Status: parsed.Get("status").Bool(),
		Error:  parsed.Get("error").String(),
		raw:    raw,
	}
	if resp := parsed.Get("response"); resp.Exists() {
		env.Response = json.RawMessage(resp.Raw)
	}
	return env, nil
}

// FailedEnvelope builds the envelope for a command that never got a usable reply
func FailedEnvelope(err error) *Envelope {
	return &Envelope{
		Status:      false,
		Error:       err.Error(),
		Unreachable: true,
	}
}

// Raw returns the node's reply verbatim, or the marshaled envelope when the
// reply was never received.
func (e *Envelope) Raw() []byte {
	data, _ := e.MarshalJSON()
	return data
}

// MarshalJSON keeps nested envelopes (e.g. error details) verbatim
func (e *Envelope) MarshalJSON() ([]byte, error) {
	if e.raw != nil {
		return e.raw, nil
	}
	type plain Envelope
	return json.Marshal((*plain)(e))
}

// Result returns the response payload for field lookups. Missing fields
// read as non-existent results rather than errors.
func (e *Envelope) Result() gjson.Result {
	if len(e.Response) == 0 {
		return gjson.Result{}
	}
	return gjson.ParseBytes(e.Response)
}

// HasResponse reports whether the node returned a non-empty response payload
func (e *Envelope) HasResponse() bool {
	r := e.Result()
	switch {
	case !r.Exists(), r.Type == gjson.Null:
		return false
	case r.IsObject():
		return len(r.Map()) > 0
	case r.IsArray():
		return len(r.Array()) > 0
	case r.Type == gjson.String:
		return r.Str != ""
	case r.Type == gjson.False:
		return false
	case r.Type == gjson.Number:
		return r.Num != 0
	}
	return true
}
