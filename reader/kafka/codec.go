package kafka

import (
	"github.com/vmihailenco/msgpack/v5"

	"lector/token"
)

// Message is the record value written for every claimed token.
type Message struct {
	Type    string         `msgpack:"type"`
	Value   any            `msgpack:"value"`
	Options map[string]any `msgpack:"options,omitempty"`
	Batch   string         `msgpack:"batch,omitempty"`
}

func encode(tok *token.Token, batch string) ([]byte, error) {
	return msgpack.Marshal(Message{
		Type:    tok.Type,
		Value:   tok.Value,
		Options: tok.Options,
		Batch:   batch,
	})
}

// Decode reads a record value back into a token. The batch ID, if any, is
// restored into the token's metadata.
func Decode(b []byte) (*token.Token, error) {
	var m Message
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	var meta map[string]any
	if m.Batch != "" {
		meta = map[string]any{"batch": m.Batch}
	}
	return token.New(m.Type, m.Value, m.Options, meta), nil
}
