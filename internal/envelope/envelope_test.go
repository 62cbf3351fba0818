package envelope_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

func TestParseBlockType(t *testing.T) {
	for _, bt := range envelope.BlockTypes() {
		got, err := envelope.ParseBlockType(bt.String())
		if err != nil {
			t.Fatalf("ParseBlockType(%s) error = %v", bt, err)
		}
		if got != bt {
			t.Errorf("ParseBlockType(%s) = %s", bt, got)
		}
	}

	for _, bad := range []string{"", "TYPE_C", "type_a", " TYPE_A"} {
		if _, err := envelope.ParseBlockType(bad); !errors.Is(err, envelope.ErrUnknownClassification) {
			t.Errorf("ParseBlockType(%q) error = %v, want ErrUnknownClassification", bad, err)
		}
	}
}

func TestEnvelopeJSON(t *testing.T) {
	data := `{"dataHeader":{"name":"block-1","blockType":"TYPE_A"},"dataBody":{"dataBody":"hello","checksum":"abc"}}`

	var e envelope.Envelope
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	want := envelope.New("block-1", envelope.TypeA, "hello", "abc")
	if e != want {
		t.Errorf("unmarshal: got %+v, want %+v", e, want)
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != data {
		t.Errorf("marshal: got %s, want %s", out, data)
	}
}

func TestEnvelopeJSONUnknownType(t *testing.T) {
	data := `{"dataHeader":{"name":"block-1","blockType":"TYPE_Q"},"dataBody":{"dataBody":"hello"}}`

	var e envelope.Envelope
	err := json.Unmarshal([]byte(data), &e)
	if !errors.Is(err, envelope.ErrUnknownClassification) {
		t.Errorf("unmarshal error = %v, want ErrUnknownClassification", err)
	}
}
