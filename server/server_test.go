package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ecolang-io/ecolang/interp"
	"github.com/ecolang-io/ecolang/storage"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(cfg, store, zerolog.Nop()), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rdr)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeRun(t *testing.T, w *httptest.ResponseRecorder) runResponse {
	t.Helper()
	var resp runResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRunEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": `say "hello"`,
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRun(t, w)
	require.Equal(t, "hello\n", resp.Output)
	require.Empty(t, resp.Warnings)
	require.Nil(t, resp.Errors)
	require.NotNil(t, resp.Eco)
	require.Equal(t, int64(55), resp.Eco.TotalOps)
	require.GreaterOrEqual(t, resp.DurationMS, int64(0))

	// null-free wire shape for the collection fields
	body := w.Body.String()
	require.Contains(t, body, `"warnings":[]`)
	require.Contains(t, body, `"errors":null`)
}

func TestRunEndpointPersists(t *testing.T) {
	srv, store := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": `say 1`,
	})
	require.Equal(t, http.StatusOK, w.Code)

	runs, err := store.ListRuns(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, int64(55), runs[0].TotalOps)
	require.Nil(t, runs[0].ScriptID)
}

func TestRunEndpointError(t *testing.T) {
	srv, store := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": "say x",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRun(t, w)
	require.NotNil(t, resp.Errors)
	require.Equal(t, "RUNTIME_ERROR", string(resp.Errors.Code))
	require.Equal(t, "Undefined variable 'x'", resp.Errors.Message)
	require.Empty(t, resp.Output)
	require.Nil(t, resp.Eco)
	require.Contains(t, w.Body.String(), `"eco":null`)

	// failed runs are not persisted
	runs, err := store.ListRuns(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestRunEndpointInputs(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code":   "ask x\nsay x + 1",
		"inputs": map[string]any{"x": 41},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "42\n", decodeRun(t, w).Output)
}

func TestRunEndpointSettingsClamped(t *testing.T) {
	t.Run("requested below ceiling applies", func(t *testing.T) {
		srv, _ := newTestServer(t, Config{})
		w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
			"code":     "say 1\nsay 2\nsay 3\nsay 4",
			"settings": map[string]any{"max_steps": 3},
		})
		resp := decodeRun(t, w)
		require.NotNil(t, resp.Errors)
		require.Equal(t, "STEP_LIMIT", string(resp.Errors.Code))
		require.Equal(t, "1\n2\n3", resp.Output)
	})

	t.Run("requested above ceiling is capped", func(t *testing.T) {
		srv, _ := newTestServer(t, Config{MaxSteps: 5})
		w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
			"code":     "say 1\nsay 2\nsay 3\nsay 4\nsay 5\nsay 6",
			"settings": map[string]any{"max_steps": 1000000},
		})
		resp := decodeRun(t, w)
		require.NotNil(t, resp.Errors)
		require.Equal(t, "STEP_LIMIT", string(resp.Errors.Code))
	})
}

func TestRunEndpointEcoTunables(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": "say 1",
		"settings": map[string]any{
			"energy_per_op_J": 0,
			"idle_power_W":    0,
			"co2_per_kwh_g":   0,
		},
	})
	resp := decodeRun(t, w)
	require.Nil(t, resp.Errors)
	require.NotNil(t, resp.Eco)
	require.Equal(t, 0.0, resp.Eco.EnergyJ)
	require.Equal(t, 0.0, resp.Eco.CO2Grams)
	require.Equal(t, int64(55), resp.Eco.TotalOps)
}

func TestRunEndpointScriptLink(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/scripts", map[string]any{
		"title": "greeter",
		"code":  `say "hi"`,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var saved map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	id := saved["script_id"]
	require.NotZero(t, id)

	doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code":      `say "hi"`,
		"script_id": id,
	})
	doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": `say "unlinked"`,
	})

	w = doJSON(t, srv.Handler(), http.MethodGet, fmt.Sprintf("/stats?script_id=%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var runs []*storage.RunRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	require.Equal(t, id, *runs[0].ScriptID)
}

func TestRunEndpointPersistFailureWarns(t *testing.T) {
	srv, store := newTestServer(t, Config{})
	require.NoError(t, store.Close())

	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code": "say 1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRun(t, w)
	require.Nil(t, resp.Errors)
	require.Equal(t, "1\n", resp.Output)
	require.Len(t, resp.Warnings, 1)
	require.Contains(t, resp.Warnings[0], "Failed to persist run:")
}

func TestRunEndpointBadBody(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.Error, "invalid request body")
}

func TestRunEndpointSandbox(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	srv, _ := newTestServer(t, Config{
		WorkerCommand: []string{"sh", "-c", `cat >/dev/null; echo '{"result": 9, "error": null}'`},
	})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/run", map[string]any{
		"code":     "result = 9",
		"settings": map[string]any{"use_subprocess": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeRun(t, w)
	require.Nil(t, resp.Errors)
	require.Equal(t, "9\n", resp.Output)
	require.Nil(t, resp.Eco)
}

func TestScriptEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodPost, "/scripts", map[string]any{
		"title": "first",
		"code":  "say 1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, srv.Handler(), http.MethodGet, "/scripts/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var script storage.Script
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &script))
	require.Equal(t, "first", script.Title)
	require.Equal(t, "say 1", script.Code)

	w = doJSON(t, srv.Handler(), http.MethodGet, "/scripts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var scripts []*storage.Script
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scripts))
	require.Len(t, scripts, 1)
	require.Empty(t, scripts[0].Code)
}

func TestGetScriptNotFound(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodGet, "/scripts/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "not found", resp.Error)
}

func TestGetScriptBadID(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodGet, "/scripts/abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEmpty(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]\n", w.Body.String())
}

func TestStatsBadScriptID(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodGet, "/stats?script_id=abc", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	srv, _ := newTestServer(t, Config{})
	first := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	second := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.NotEmpty(t, first.Header().Get("X-Request-ID"))
	require.NotEmpty(t, second.Header().Get("X-Request-ID"))
	require.NotEqual(t, first.Header().Get("X-Request-ID"), second.Header().Get("X-Request-ID"))
}

func TestCapSettings(t *testing.T) {
	ceiling := interp.DefaultConfig()
	ceiling.MaxSteps = 1000
	ceiling.MaxLoop = 100

	t.Run("nil settings keep ceiling", func(t *testing.T) {
		cfg := capSettings(nil, ceiling)
		require.Equal(t, int64(1000), cfg.MaxSteps)
		require.Equal(t, int64(100), cfg.MaxLoop)
	})

	t.Run("lower requests apply", func(t *testing.T) {
		steps, loop := int64(10), int64(5)
		cfg := capSettings(&runSettings{MaxSteps: &steps, MaxLoop: &loop}, ceiling)
		require.Equal(t, int64(10), cfg.MaxSteps)
		require.Equal(t, int64(5), cfg.MaxLoop)
	})

	t.Run("higher requests clamp to ceiling", func(t *testing.T) {
		steps := int64(99999)
		seconds := 3600.0
		cfg := capSettings(&runSettings{MaxSteps: &steps, MaxTimeS: &seconds}, ceiling)
		require.Equal(t, int64(1000), cfg.MaxSteps)
		require.Equal(t, ceiling.MaxTime, cfg.MaxTime)
	})

	t.Run("eco tunables pass through unclamped", func(t *testing.T) {
		energy := 123.0
		cfg := capSettings(&runSettings{EnergyPerOpJ: &energy}, ceiling)
		require.Equal(t, 123.0, cfg.EcoParams.EnergyPerOpJ)
	})
}

func TestConfigCeiling(t *testing.T) {
	defaults := Config{}.Ceiling()
	require.Equal(t, interp.DefaultConfig().MaxSteps, defaults.MaxSteps)
	require.Equal(t, interp.DefaultConfig().MaxTime, defaults.MaxTime)

	tuned := Config{MaxSteps: 7, MaxTimeS: 0.25}.Ceiling()
	require.Equal(t, int64(7), tuned.MaxSteps)
	require.Equal(t, "250ms", tuned.MaxTime.String())
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("ECOLANG_LISTEN", ":9999")
	t.Setenv("ECOLANG_MAX_STEPS", "123")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.Listen)
	require.Equal(t, int64(123), cfg.MaxSteps)
	require.Equal(t, "ecolang.db", cfg.DBPath)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecolang.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":7000\"\ndb_path: /tmp/eco.db\nmax_loop: 42\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Listen)
	require.Equal(t, "/tmp/eco.db", cfg.DBPath)
	require.Equal(t, int64(42), cfg.MaxLoop)
}
