package blocks_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/dataserver/internal/blocks"
	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/routes"
)

const helloSum = "5d41402abc4b2a76b9719d911017c592"

func newServer(t *testing.T, maxSize int64) (*httptest.Server, *recordingDispatcher) {
	t.Helper()
	d := &recordingDispatcher{}
	sys := blocks.New(newMemRepo(), d, discard())

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(maxSize).Routes())

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, d
}

func envelopeJSON(name, blockType, payload, sum string) string {
	return `{"dataHeader":{"name":"` + name + `","blockType":"` + blockType + `"},` +
		`"dataBody":{"dataBody":"` + payload + `","checksum":"` + sum + `"}}`
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(b)
}

func TestHandlerIngest(t *testing.T) {
	srv, d := newServer(t, 1<<20)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{"verified", envelopeJSON("b1", "TYPE_A", "hello", helloSum), http.StatusOK, "true\n"},
		{"mismatch", envelopeJSON("b2", "TYPE_A", "hello", "deadbeef"), http.StatusBadRequest, "false\n"},
		{"duplicate", envelopeJSON("b1", "TYPE_B", "hello", helloSum), http.StatusConflict, ""},
		{"unknown type", envelopeJSON("b3", "TYPE_C", "hello", helloSum), http.StatusBadRequest, ""},
		{"malformed json", `{"dataHeader":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, "POST", srv.URL+"/blocks", tt.body)
			if code != tt.wantCode {
				t.Errorf("status: got %d, want %d (body %s)", code, tt.wantCode, body)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body: got %q, want %q", body, tt.wantBody)
			}
		})
	}

	if sent := d.sent(); len(sent) != 1 {
		t.Errorf("dispatches: got %d, want 1", len(sent))
	}
}

func TestHandlerIngestTooLarge(t *testing.T) {
	srv, _ := newServer(t, 64)

	body := envelopeJSON("b1", "TYPE_A", strings.Repeat("x", 128), helloSum)
	if code, _ := do(t, "POST", srv.URL+"/blocks", body); code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", code)
	}
}

func TestHandlerFindByType(t *testing.T) {
	srv, _ := newServer(t, 1<<20)
	do(t, "POST", srv.URL+"/blocks", envelopeJSON("b1", "TYPE_A", "hello", helloSum))

	code, body := do(t, "GET", srv.URL+"/blocks/type/TYPE_A", "")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}

	var envs []envelope.Envelope
	if err := json.Unmarshal([]byte(body), &envs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := envelope.New("b1", envelope.TypeA, "hello", helloSum)
	if len(envs) != 1 || envs[0] != want {
		t.Errorf("envelopes: got %+v, want [%+v]", envs, want)
	}

	if code, body := do(t, "GET", srv.URL+"/blocks/type/TYPE_B", ""); code != http.StatusOK || body != "[]\n" {
		t.Errorf("empty type: got %d %q, want 200 \"[]\\n\"", code, body)
	}

	if code, _ := do(t, "GET", srv.URL+"/blocks/type/TYPE_C", ""); code != http.StatusBadRequest {
		t.Errorf("unknown type: got %d, want 400", code)
	}
}

func TestHandlerDump(t *testing.T) {
	srv, _ := newServer(t, 1<<20)
	do(t, "POST", srv.URL+"/blocks", envelopeJSON("b1", "TYPE_A", "hello", helloSum))

	code, body := do(t, "GET", srv.URL+"/blocks/type/TYPE_A/dump", "")
	if code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", code)
	}

	want := "Envelope(dataHeader=Header(name=b1, type=TYPE_A), dataBody=Body(payload=hello, checksum=" + helloSum + "))\n"
	if body != want {
		t.Errorf("dump:\ngot  %q\nwant %q", body, want)
	}

	decoded, err := envelope.Text{}.Decode(strings.TrimSpace(body))
	if err != nil {
		t.Fatalf("decode dump line: %v", err)
	}
	if decoded.Header.Name != "b1" || decoded.Body.Payload != "hello" {
		t.Errorf("decoded: got %+v", decoded)
	}
}

func TestHandlerUpdateType(t *testing.T) {
	srv, _ := newServer(t, 1<<20)
	do(t, "POST", srv.URL+"/blocks", envelopeJSON("b1", "TYPE_A", "hello", helloSum))

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"absent", "/blocks/missing/type/TYPE_B", http.StatusOK, "false\n"},
		{"unknown type", "/blocks/b1/type/TYPE_C", http.StatusBadRequest, ""},
		{"reclassify", "/blocks/b1/type/TYPE_B", http.StatusOK, "true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, "PATCH", srv.URL+tt.path, "")
			if code != tt.wantCode {
				t.Errorf("status: got %d, want %d", code, tt.wantCode)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body: got %q, want %q", body, tt.wantBody)
			}
		})
	}

	_, body := do(t, "GET", srv.URL+"/blocks/type/TYPE_B", "")
	if !strings.Contains(body, `"name":"b1"`) {
		t.Errorf("b1 should be TYPE_B after reclassify: %s", body)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{blocks.ErrNotFound, http.StatusNotFound},
		{blocks.ErrDuplicate, http.StatusConflict},
		{blocks.ErrInvalidEnvelope, http.StatusBadRequest},
		{envelope.ErrUnknownClassification, http.StatusBadRequest},
		{envelope.ErrMalformedEnvelope, http.StatusBadRequest},
		{http.ErrAbortHandler, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := blocks.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
