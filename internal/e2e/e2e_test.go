package e2e

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"chatd/internal/manager"
	"chatd/pkg/types"
)

const helloBody = `{"messages":[{"role":"user","content":"Hello"}]}`

func TestE2E_ChatHello(t *testing.T) {
	h := &scriptedHandle{reply: "  Hi there!\n"}
	loader := &scriptedLoader{handle: h}
	srv, _ := newServer(t, manager.ManagerConfig{ModelPath: createModelFile(t, "ursa.gguf"), Loader: loader})

	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(helloBody))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	var got types.ChatResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.Content != "Hi there!" {
		t.Fatalf("content=%q", got.Content)
	}

	wantPrompt := "<|im_start|>user\nHello<|im_end|>\n<|im_start|>assistant\n"
	if diff := cmp.Diff([]string{wantPrompt}, h.prompts); diff != "" {
		t.Fatalf("prompt mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"<|im_end|>", "<|im_start|>"}}, h.stops); diff != "" {
		t.Fatalf("stop mismatch (-want +got):\n%s", diff)
	}

	// A second request reuses the handle.
	if resp, _ := httpPostJSON(t, srv.URL+"/chat", []byte(helloBody)); resp.StatusCode != http.StatusOK {
		t.Fatalf("second status=%d", resp.StatusCode)
	}
	if n := loader.loadCount(); n != 1 {
		t.Fatalf("expected one load, got %d", n)
	}
}

func TestE2E_RootAndHealthNeverLoad(t *testing.T) {
	loader := &scriptedLoader{handle: &scriptedHandle{reply: "x"}}
	model := createModelFile(t, "ursa_minor-q8_0.gguf")
	srv, _ := newServer(t, manager.ManagerConfig{ModelPath: model, Loader: loader})

	resp, body := httpGet(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"model":"ursa_minor-q8_0.gguf"`) {
		t.Fatalf("root: status=%d body=%s", resp.StatusCode, body)
	}
	resp, body = httpGet(t, srv.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status=%d body=%s", resp.StatusCode, body)
	}
	var hr types.HealthResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		t.Fatalf("json: %v", err)
	}
	if hr.Status != "healthy" || hr.ModelPath != model {
		t.Fatalf("unexpected health: %+v", hr)
	}
	if resp, _ := httpGet(t, srv.URL+"/readyz"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz before load: %d", resp.StatusCode)
	}
	if n := loader.loadCount(); n != 0 {
		t.Fatalf("health must not load the model, loads=%d", n)
	}

	httpPostJSON(t, srv.URL+"/chat", []byte(helloBody))
	if resp, _ := httpGet(t, srv.URL+"/readyz"); resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz after load: %d", resp.StatusCode)
	}
}

func TestE2E_MissingModel(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.gguf")
	loader := &scriptedLoader{handle: &scriptedHandle{}}
	srv, _ := newServer(t, manager.ManagerConfig{ModelPath: missing, Loader: loader})

	resp, body := httpGet(t, srv.URL+"/health")
	if resp.StatusCode != http.StatusServiceUnavailable || !strings.Contains(string(body), missing) {
		t.Fatalf("health: status=%d body=%s", resp.StatusCode, body)
	}

	resp, body = httpPostJSON(t, srv.URL+"/chat", []byte(helloBody))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("chat: status=%d body=%s", resp.StatusCode, body)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("json: %v", err)
	}
	if e.Error != "model file not found: "+missing {
		t.Fatalf("chat error=%q", e.Error)
	}
	if n := loader.loadCount(); n != 0 {
		t.Fatalf("loader must not run for a missing file, loads=%d", n)
	}
}

// TestE2E_Backpressure429 verifies that a request beyond the queue depth is
// rejected with 429 while a generation is in flight.
func TestE2E_Backpressure429(t *testing.T) {
	h := &scriptedHandle{reply: "done", gate: make(chan struct{}), started: make(chan struct{}, 1)}
	srv, mgr := newServer(t, manager.ManagerConfig{
		ModelPath:     createModelFile(t, "alpha.gguf"),
		Loader:        &scriptedLoader{handle: h},
		MaxQueueDepth: 1,
	})

	first := make(chan int, 1)
	go func() {
		resp, _ := httpPostJSON(t, srv.URL+"/chat", []byte(helloBody))
		first <- resp.StatusCode
	}()
	select {
	case <-h.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("first generation did not start")
	}
	if _, inflight, _ := mgr.QueueStats(); inflight != 1 {
		t.Fatalf("expected one in-flight generation, got %d", inflight)
	}

	resp, body := httpPostJSON(t, srv.URL+"/chat", []byte(helloBody))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%s", resp.StatusCode, body)
	}

	close(h.gate)
	if s := <-first; s != http.StatusOK {
		t.Fatalf("first request status=%d", s)
	}
}

func TestE2E_ValidationNeverReachesModel(t *testing.T) {
	loader := &scriptedLoader{handle: &scriptedHandle{}}
	srv, _ := newServer(t, manager.ManagerConfig{ModelPath: createModelFile(t, "m.gguf"), Loader: loader})

	cases := []struct {
		body string
		want int
	}{
		{`{"messages":`, http.StatusBadRequest},
		{`{"messages":[],"max_tokens":-5}`, http.StatusUnprocessableEntity},
		{`{"messages":"not-a-list"}`, http.StatusUnprocessableEntity},
		{`{"max_tokens":10}`, http.StatusUnprocessableEntity},
		{`{"messages":[{"content":"x"}]}`, http.StatusUnprocessableEntity},
		{`{"messages":[{"role":"user"}]}`, http.StatusUnprocessableEntity},
		{`{"messages":[{"role":"user","content":null}]}`, http.StatusUnprocessableEntity},
		{`{"messages":[null]}`, http.StatusUnprocessableEntity},
		{`{"messages":[]} {"oops":1}`, http.StatusBadRequest},
	}
	for _, c := range cases {
		resp, got := httpPostJSON(t, srv.URL+"/chat", []byte(c.body))
		if resp.StatusCode != c.want {
			t.Fatalf("%s: status=%d want %d body=%s", c.body, resp.StatusCode, c.want, got)
		}
	}
	if n := loader.loadCount(); n != 0 {
		t.Fatalf("invalid requests must not load the model, loads=%d", n)
	}
}
