package scoreboard

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRecordHasEveryField(t *testing.T) {
	rec := DefaultRecord()
	if len(rec) != len(Fields) {
		t.Fatalf("default record has %d fields, want %d", len(rec), len(Fields))
	}
	for _, f := range Fields {
		if _, ok := rec[f]; !ok {
			t.Errorf("default record missing %q", f)
		}
	}
}

func TestEncodeUsesDocumentOrderAndIndent(t *testing.T) {
	data, err := Encode(DefaultRecord())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "{\n  \"set_label\": \"\",\n  \"current_game\": 1,") {
		t.Fatalf("unexpected document head:\n%s", text)
	}

	last := -1
	for _, f := range Fields {
		idx := strings.Index(text, `"`+f+`"`)
		if idx < 0 {
			t.Fatalf("field %q missing from document", f)
		}
		if idx < last {
			t.Fatalf("field %q out of order", f)
		}
		last = idx
	}
}

func TestMarshalSkipsUnknownKeys(t *testing.T) {
	rec := Record{FieldRallyCount: float64(2), "extra": true}
	data, err := rec.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if got := string(data); got != `{"rally_count":2}` {
		t.Fatalf("MarshalJSON = %s", got)
	}
}

func TestMarshalWritesEveryFieldInOrder(t *testing.T) {
	data, err := DefaultRecord().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	want := `{"set_label":"","current_game":1,"rally_count":0,` +
		`"player_a_name":"Player A","player_a_serve_success":0,"player_a_forehand_wins":0,"player_a_backhand_wins":0,` +
		`"player_b_name":"Player B","player_b_serve_success":0,"player_b_forehand_wins":0,"player_b_backhand_wins":0,` +
		`"singlebar_visible":true,"doublebar_visible":true,"doublebar_metric":"serve_success"}`
	if got := string(data); got != want {
		t.Fatalf("MarshalJSON mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestMarshalReportsUnencodableValue(t *testing.T) {
	rec := Record{FieldSetLabel: make(chan int)}
	if _, err := rec.MarshalJSON(); err == nil || !strings.Contains(err.Error(), FieldSetLabel) {
		t.Fatalf("MarshalJSON error = %v, want one naming %s", err, FieldSetLabel)
	}
}

func TestDecodeBackfillsAndDropsUnknown(t *testing.T) {
	rec, err := Decode([]byte(`{"rally_count": 4, "legacy": "x"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := DefaultRecord()
	want[FieldRallyCount] = float64(4)
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	for _, raw := range []string{``, `{`, `null`, `[1]`, `"text"`} {
		if _, err := Decode([]byte(raw)); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", raw)
		}
	}
}

func TestEqualIgnoresNumericRepresentation(t *testing.T) {
	a := DefaultRecord()
	b := DefaultRecord()
	b[FieldCurrentGame] = 1

	if !Equal(a, b) {
		t.Fatalf("expected int and float64 1 to compare equal")
	}

	b[FieldCurrentGame] = 2
	if Equal(a, b) {
		t.Fatalf("expected records to differ")
	}
}
