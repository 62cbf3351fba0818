package dispatch_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/dataserver/internal/dispatch"
	"github.com/JaimeStill/dataserver/pkg/lifecycle"
)

func TestHTTPSink(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  error
		wantBody string
	}{
		{"ok", http.StatusOK, nil, "accepted"},
		{"created", http.StatusCreated, nil, "accepted"},
		{"server error", http.StatusInternalServerError, dispatch.ErrStatus, "accepted"},
		{"not found", http.StatusNotFound, dispatch.ErrStatus, "accepted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody, gotType string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, _ := io.ReadAll(r.Body)
				gotBody = string(b)
				gotType = r.Header.Get("Content-Type")
				w.WriteHeader(tt.status)
				w.Write([]byte("accepted"))
			}))
			defer srv.Close()

			sink := dispatch.NewHTTPSink(srv.URL, time.Second, time.Second)
			resp, err := sink.Send(context.Background(), "hello")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if resp != tt.wantBody {
				t.Errorf("response: got %q, want %q", resp, tt.wantBody)
			}
			if gotBody != "hello" {
				t.Errorf("posted body: got %q, want hello", gotBody)
			}
			if !strings.HasPrefix(gotType, "text/plain") {
				t.Errorf("content type: got %q", gotType)
			}
		})
	}
}

func TestHTTPSinkRequestTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	sink := dispatch.NewHTTPSink(srv.URL, time.Second, 50*time.Millisecond)
	if _, err := sink.Send(context.Background(), "x"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestHTTPSinkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	sink := dispatch.NewHTTPSink(url, 100*time.Millisecond, time.Second)
	if _, err := sink.Send(context.Background(), "x"); err == nil {
		t.Fatal("expected connection error")
	}
}

type fakeStore struct {
	key         string
	body        string
	contentType string
	err         error
}

func (f *fakeStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (f *fakeStore) Key(parts ...string) string {
	return path.Join(append([]string{"blocks"}, parts...)...)
}

func (f *fakeStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(r)
	f.key, f.body, f.contentType = key, string(b), contentType
	return nil
}

var blobKey = regexp.MustCompile(`^blocks/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}$`)

func TestBlobSink(t *testing.T) {
	store := &fakeStore{}
	sink := dispatch.NewBlobSink(store)

	key, err := sink.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if !blobKey.MatchString(key) {
		t.Errorf("key: got %q, want blocks/yyyy/mm/dd/uuid", key)
	}
	if store.key != key {
		t.Errorf("uploaded key: got %q, want %q", store.key, key)
	}
	if store.body != "hello" {
		t.Errorf("uploaded body: got %q, want hello", store.body)
	}
}

func TestBlobSinkUploadError(t *testing.T) {
	uploadErr := errors.New("forbidden")
	sink := dispatch.NewBlobSink(&fakeStore{err: uploadErr})

	if _, err := sink.Send(context.Background(), "x"); !errors.Is(err, uploadErr) {
		t.Errorf("err: got %v, want %v", err, uploadErr)
	}
}

func TestNewSink(t *testing.T) {
	if _, err := dispatch.NewSink(&dispatch.Config{Sink: dispatch.SinkBlob}, nil); err == nil {
		t.Error("blob sink without storage should fail")
	}
	if _, err := dispatch.NewSink(&dispatch.Config{Sink: "kafka"}, nil); err == nil {
		t.Error("unknown sink should fail")
	}

	sink, err := dispatch.NewSink(&dispatch.Config{Sink: dispatch.SinkHTTP, Endpoint: "http://localhost:1"}, nil)
	if err != nil {
		t.Fatalf("http sink: %v", err)
	}
	if _, ok := sink.(*dispatch.HTTPSink); !ok {
		t.Errorf("sink type: got %T, want *dispatch.HTTPSink", sink)
	}
}
