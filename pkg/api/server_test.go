package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailwright/mailwright/pkg/agent"
	"github.com/mailwright/mailwright/pkg/config"
)

type stubRunner struct {
	mu           sync.Mutex
	results      []agent.Result
	err          error
	instructions []string
	providers    [][]string
}

func (r *stubRunner) Execute(_ context.Context, instruction string, providers []string) ([]agent.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instructions = append(r.instructions, instruction)
	r.providers = append(r.providers, providers)
	return r.results, r.err
}

func (r *stubRunner) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instructions)
}

func newTestServer(runner Runner) *Server {
	return NewServer(runner, config.ServerSection{})
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	server := newTestServer(&stubRunner{})

	w := doJSON(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestProviders(t *testing.T) {
	server := newTestServer(&stubRunner{})

	w := doJSON(t, server, http.MethodGet, "/providers", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	for _, provider := range agent.Providers() {
		assert.Contains(t, w.Body.String(), provider)
	}
}

func TestSendSyncSuccess(t *testing.T) {
	runner := &stubRunner{results: []agent.Result{
		{Provider: "gmail", Success: true},
		{Provider: "outlook", Success: true},
	}}
	server := newTestServer(runner)

	w := doJSON(t, server, http.MethodPost, "/send-email", SendRequest{
		Instruction: "email jane@example.com about the roadmap",
		Provider:    "both",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Results, 2)

	require.Equal(t, 1, runner.calls())
	assert.Equal(t, []string{"both"}, runner.providers[0])
}

func TestSendSyncPartialFailure(t *testing.T) {
	runner := &stubRunner{results: []agent.Result{
		{Provider: "gmail", Success: true},
		{Provider: "outlook", Success: false},
	}}
	server := newTestServer(runner)

	w := doJSON(t, server, http.MethodPost, "/send-email", SendRequest{
		Instruction: "email jane@example.com",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestSendSyncRunnerError(t *testing.T) {
	runner := &stubRunner{err: errors.New("browser launch failed")}
	server := newTestServer(runner)

	w := doJSON(t, server, http.MethodPost, "/send-email", SendRequest{
		Instruction: "email jane@example.com",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "browser launch failed")
}

func TestSendRequiresInstruction(t *testing.T) {
	server := newTestServer(&stubRunner{})

	w := doJSON(t, server, http.MethodPost, "/send-email", SendRequest{Provider: "gmail"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendAsyncReturnsTaskID(t *testing.T) {
	runner := &stubRunner{results: []agent.Result{{Provider: "gmail", Success: true}}}
	server := newTestServer(runner)

	w := doJSON(t, server, http.MethodPost, "/send-email", SendRequest{
		Instruction: "email jane@example.com",
		Async:       true,
	})

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp SendResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.TaskID)

	// The background task finishes quickly with a stub runner; poll until
	// the status leaves "running".
	deadline := time.Now().Add(2 * time.Second)
	for {
		tw := doJSON(t, server, http.MethodGet, "/tasks/"+resp.TaskID, nil)
		require.Equal(t, http.StatusOK, tw.Code)

		var tk task
		require.NoError(t, json.Unmarshal(tw.Body.Bytes(), &tk))
		if tk.Status != "running" {
			assert.Equal(t, "done", tk.Status)
			assert.Len(t, tk.Results, 1)
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("task never finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTaskNotFound(t *testing.T) {
	server := newTestServer(&stubRunner{})

	w := doJSON(t, server, http.MethodGet, "/tasks/unknown-id", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendBatchRunsSequentially(t *testing.T) {
	runner := &stubRunner{results: []agent.Result{{Provider: "gmail", Success: true}}}
	server := newTestServer(runner)

	w := doJSON(t, server, http.MethodPost, "/send-email-batch", []SendRequest{
		{Instruction: "email jane@example.com about budgets"},
		{Instruction: "email bob@corp.io about hiring"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, runner.calls())

	var body struct {
		Responses []SendResponse `json:"responses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Responses, 2)
	assert.True(t, body.Responses[0].Success)
	assert.True(t, body.Responses[1].Success)
}

func TestAllSucceeded(t *testing.T) {
	assert.False(t, allSucceeded(nil))
	assert.False(t, allSucceeded([]agent.Result{{Success: true}, {Success: false}}))
	assert.True(t, allSucceeded([]agent.Result{{Success: true}, {Success: true}}))
}
