package game

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// SnapshotStruct converts a state into a protobuf Struct with the same field
// names as the JSON snapshot.
func SnapshotStruct(s State) (*structpb.Struct, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return structpb.NewStruct(fields)
}

// EncodeSnapshot produces the binary frame sent on the websocket.
func EncodeSnapshot(s State) ([]byte, error) {
	st, err := SnapshotStruct(s)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(st)
}

func DecodeSnapshot(data []byte) (*structpb.Struct, error) {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return nil, err
	}
	return st, nil
}
