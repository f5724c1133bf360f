package wire

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// MatchLabel is the searchable label of a Nakama match.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Code  string `json:"code"`
}

// LabelGame is the constant game field of every match label.
const LabelGame = "shanghai"

// MarshalLabel renders l as JSON for Nakama's label index.
func MarshalLabel(l MatchLabel) (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"open":  l.Open,
		"game":  l.Game,
		"phase": l.Phase,
		"code":  l.Code,
	})
	if err != nil {
		return "", fmt.Errorf("build label: %w", err)
	}
	raw, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal label: %w", err)
	}
	return string(raw), nil
}

// UnmarshalLabel parses a label produced by MarshalLabel.
func UnmarshalLabel(label string) (MatchLabel, error) {
	var l MatchLabel
	if err := json.Unmarshal([]byte(label), &l); err != nil {
		return MatchLabel{}, fmt.Errorf("%w: label: %v", ErrMalformed, err)
	}
	return l, nil
}
