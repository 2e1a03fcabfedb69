package scoreboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field names of the scoreboard document.
const (
	FieldSetLabel            = "set_label"
	FieldCurrentGame         = "current_game"
	FieldRallyCount          = "rally_count"
	FieldPlayerAName         = "player_a_name"
	FieldPlayerAServeSuccess = "player_a_serve_success"
	FieldPlayerAForehandWins = "player_a_forehand_wins"
	FieldPlayerABackhandWins = "player_a_backhand_wins"
	FieldPlayerBName         = "player_b_name"
	FieldPlayerBServeSuccess = "player_b_serve_success"
	FieldPlayerBForehandWins = "player_b_forehand_wins"
	FieldPlayerBBackhandWins = "player_b_backhand_wins"
	FieldSinglebarVisible    = "singlebar_visible"
	FieldDoublebarVisible    = "doublebar_visible"
	FieldDoublebarMetric     = "doublebar_metric"
)

const (
	defaultPlayerAName     = "Player A"
	defaultPlayerBName     = "Player B"
	defaultDoublebarMetric = "serve_success"
)

// Fields is the fixed field set in document order. It doubles as the
// allow-list for both local and remote writes.
var Fields = []string{
	FieldSetLabel,
	FieldCurrentGame,
	FieldRallyCount,
	FieldPlayerAName,
	FieldPlayerAServeSuccess,
	FieldPlayerAForehandWins,
	FieldPlayerABackhandWins,
	FieldPlayerBName,
	FieldPlayerBServeSuccess,
	FieldPlayerBForehandWins,
	FieldPlayerBBackhandWins,
	FieldSinglebarVisible,
	FieldDoublebarVisible,
	FieldDoublebarMetric,
}

var allowedFields = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Fields))
	for _, f := range Fields {
		set[f] = struct{}{}
	}
	return set
}()

// IsAllowed reports whether key belongs to the fixed field set.
func IsAllowed(key string) bool {
	_, ok := allowedFields[key]
	return ok
}

// Record is the scoreboard document. Values are kept exactly as decoded from
// JSON (numbers are float64) and are never coerced or validated.
type Record map[string]any

// DefaultRecord returns the built-in first-boot record.
func DefaultRecord() Record {
	return Record{
		FieldSetLabel:            "",
		FieldCurrentGame:         float64(1),
		FieldRallyCount:          float64(0),
		FieldPlayerAName:         defaultPlayerAName,
		FieldPlayerAServeSuccess: float64(0),
		FieldPlayerAForehandWins: float64(0),
		FieldPlayerABackhandWins: float64(0),
		FieldPlayerBName:         defaultPlayerBName,
		FieldPlayerBServeSuccess: float64(0),
		FieldPlayerBForehandWins: float64(0),
		FieldPlayerBBackhandWins: float64(0),
		FieldSinglebarVisible:    true,
		FieldDoublebarVisible:    true,
		FieldDoublebarMetric:     defaultDoublebarMetric,
	}
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithDefaults returns r restricted to the fixed field set, with any missing
// field backfilled from DefaultRecord.
func (r Record) WithDefaults() Record {
	out := DefaultRecord()
	for _, f := range Fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// MarshalJSON encodes the record with its fields in document order. Keys
// outside the fixed field set are not emitted.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range Fields {
		v, ok := r[f]
		if !ok {
			continue
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString(strconv.Quote(f))
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Equal reports whether a and b encode to the same canonical JSON.
func Equal(a, b Record) bool {
	ea, err := json.Marshal(a)
	if err != nil {
		return false
	}
	eb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

// Encode renders r as the pretty-printed durable document.
func Encode(r Record) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoreboard record: %w", err)
	}
	return data, nil
}

// Decode parses a durable document and backfills missing fields.
func Decode(data []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to decode scoreboard record: document is null")
	}
	return Record(raw).WithDefaults(), nil
}
