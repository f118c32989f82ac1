package transport

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"lector/token"
)

// Wire shape:
//
//	request:  {"tokens": [{"type", "value", "options"}...], "options": {...}}
//	response: {"tokens": [...]}
//
// Numbers come back as float64 and token metadata is not transferred.

func EncodeRequest(tokens token.Tokens, opts map[string]any) (*structpb.Struct, error) {
	list, err := encodeTokens(tokens)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = map[string]any{}
	}
	return structpb.NewStruct(map[string]any{"tokens": list, "options": opts})
}

func DecodeRequest(s *structpb.Struct) (token.Tokens, map[string]any, error) {
	m := s.AsMap()
	tokens, err := decodeTokens(m["tokens"])
	if err != nil {
		return nil, nil, err
	}
	opts, _ := m["options"].(map[string]any)
	if opts == nil {
		opts = map[string]any{}
	}
	return tokens, opts, nil
}

func EncodeResponse(tokens token.Tokens) (*structpb.Struct, error) {
	list, err := encodeTokens(tokens)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(map[string]any{"tokens": list})
}

func DecodeResponse(s *structpb.Struct) (token.Tokens, error) {
	return decodeTokens(s.AsMap()["tokens"])
}

func encodeTokens(tokens token.Tokens) ([]any, error) {
	out := make([]any, 0, len(tokens))
	for _, t := range tokens {
		opts := t.Options
		if opts == nil {
			opts = map[string]any{}
		}
		entry := map[string]any{"type": t.Type, "value": t.Value, "options": opts}
		if _, err := structpb.NewValue(entry); err != nil {
			return nil, fmt.Errorf("transport: encode token %s: %w", t, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func decodeTokens(raw any) (token.Tokens, error) {
	if raw == nil {
		return token.Tokens{}, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("transport: tokens: want list, got %T", raw)
	}
	out := make(token.Tokens, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("transport: token %d: want struct, got %T", i, item)
		}
		typ, _ := m["type"].(string)
		if typ == "" {
			return nil, fmt.Errorf("transport: token %d: missing type", i)
		}
		opts, _ := m["options"].(map[string]any)
		out = append(out, token.New(typ, m["value"], opts, nil))
	}
	return out, nil
}
