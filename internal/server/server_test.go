package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/httputil"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	s := New(runner, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func smallOptions(seed uint64) pipeline.Options {
	return pipeline.Options{Width: 60, Height: 30, Seed: seed}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "ok", body["status"])
	require.Contains(t, body, "build")
}

func TestGenerate(t *testing.T) {
	_, ts := newTestServer(t)
	resp := post(t, ts, "/v1/generate", GenerateRequest{
		Options: smallOptions(42),
		Formats: []string{pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatASCII},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[GenerateResponse](t, resp)
	require.NotEmpty(t, got.ID)
	require.Equal(t, uint64(42), got.Seed)
	require.Len(t, got.LayoutHash, 64)
	require.Equal(t, got.Stats.Rooms, len(got.Layout.Rooms))
	require.Equal(t, got.Stats.Doors, len(got.Layout.Doors))
	require.Greater(t, got.Stats.Rooms, 1)

	require.NotContains(t, got.Artifacts, pipeline.FormatJSON)
	require.True(t, strings.HasPrefix(got.Artifacts[pipeline.FormatDOT], "graph"))
	require.Contains(t, got.Artifacts[pipeline.FormatASCII], "#")
}

func TestGenerateDeterministic(t *testing.T) {
	_, ts := newTestServer(t)
	a := decode[GenerateResponse](t, post(t, ts, "/v1/generate", GenerateRequest{Options: smallOptions(7)}))
	b := decode[GenerateResponse](t, post(t, ts, "/v1/generate", GenerateRequest{Options: smallOptions(7)}))
	require.Equal(t, a.LayoutHash, b.LayoutHash)
	require.NotEqual(t, a.ID, b.ID)
}

func TestGenerateErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"bad strategy", `{"strategy": "sideways"}`, errs.ErrCodeInvalidStrategy},
		{"bad format", `{"formats": ["png"]}`, errs.ErrCodeInvalidFormat},
		{"unknown field", `{"widht": 10}`, errs.ErrCodeInvalidInput},
		{"bad percent", `{"percent_to_remove": 300}`, errs.ErrCodeInvalidConfig},
		{"malformed", `{"width":`, errs.ErrCodeInvalidInput},
		{"area too large", `{"width": 4096, "height": 4096}`, errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/generate", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[httputil.ErrorBody](t, resp)
			require.Equal(t, tt.code, body.Code)
			require.NotEmpty(t, body.Message)
		})
	}
}

func TestPath(t *testing.T) {
	_, ts := newTestServer(t)
	gen := decode[GenerateResponse](t, post(t, ts, "/v1/generate", GenerateRequest{Options: smallOptions(3)}))
	first, last := gen.Layout.Rooms[0], gen.Layout.Rooms[len(gen.Layout.Rooms)-1]
	fx, fz := first.Bounds.Center()
	lx, lz := last.Bounds.Center()

	resp := post(t, ts, "/v1/path", PathRequest{
		Options: smallOptions(3),
		PathQuery: pipeline.PathQuery{
			From:      pathfind.Vec3{X: fx, Z: fz},
			To:        pathfind.Vec3{X: lx, Z: lz},
			Algorithm: "astar",
		},
		Map: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[PathResponse](t, resp)
	require.Equal(t, gen.LayoutHash, got.LayoutHash)
	require.True(t, got.Found)
	require.Equal(t, pathfind.AlgoAStar, got.Result.Algorithm)
	require.NotEmpty(t, got.Result.Path)
	require.Contains(t, got.Map, "S")
	require.Contains(t, got.Map, "G")
}

func TestPathBadAlgorithm(t *testing.T) {
	_, ts := newTestServer(t)
	resp := post(t, ts, "/v1/path", PathRequest{Options: smallOptions(3), PathQuery: pipeline.PathQuery{Algorithm: "teleport"}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, errs.ErrCodeInvalidAlgorithm, decode[httputil.ErrorBody](t, resp).Code)
}

func TestRender(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/render/dot?seed=5&width=60&height=30&detailed=true")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "graphviz")
	require.Equal(t, "5", resp.Header.Get("X-Dungeon-Seed"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(body, []byte("graph")))

	for path, code := range map[string]errs.Code{
		"/v1/render/png":                errs.ErrCodeInvalidFormat,
		"/v1/render/ascii?seed=abc":     errs.ErrCodeInvalidInput,
		"/v1/render/ascii?width=wide":   errs.ErrCodeInvalidInput,
		"/v1/render/ascii?spatial=sure": errs.ErrCodeInvalidInput,
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		require.Equal(t, code, decode[httputil.ErrorBody](t, resp).Code, path)
		resp.Body.Close()
	}
}

func TestNotFound(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v2/nothing")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, errs.ErrCodeNotFound, decode[httputil.ErrorBody](t, resp).Code)
}

func TestStats(t *testing.T) {
	s, ts := newTestServer(t)
	post(t, ts, "/v1/generate", GenerateRequest{Options: smallOptions(1)})
	post(t, ts, "/v1/generate", GenerateRequest{Options: pipeline.Options{Strategy: "nope"}})

	resp, err := http.Get(ts.URL + "/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	snap := decode[observability.Snapshot](t, resp)

	require.GreaterOrEqual(t, snap.Requests, int64(2))
	require.Equal(t, int64(1), snap.Generated)
	require.Equal(t, int64(1), snap.Stages[observability.StageSplit].Runs)
	require.Equal(t, snap.Generated, s.Counters.Snapshot().Generated)
}

func dialStream(t *testing.T, ts *httptest.Server) (*websocket.Conn, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http")+"/v1/stream", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn, ctx
}

// readUntilDone collects events up to and including a result or error.
func readUntilDone(t *testing.T, ctx context.Context, conn *websocket.Conn) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	for {
		var ev StreamEvent
		require.NoError(t, wsjson.Read(ctx, conn, &ev))
		events = append(events, ev)
		if ev.Type == EventResult || ev.Type == EventError {
			return events
		}
	}
}

func TestStream(t *testing.T) {
	_, ts := newTestServer(t)
	conn, ctx := dialStream(t, ts)

	require.NoError(t, wsjson.Write(ctx, conn, GenerateRequest{Options: smallOptions(11)}))
	events := readUntilDone(t, ctx, conn)

	require.Equal(t, EventGenerateStart, events[0].Type)
	require.Equal(t, uint64(11), events[0].Seed)

	var stages []string
	for _, ev := range events {
		if ev.Type == EventStageComplete {
			stages = append(stages, ev.Stage)
		}
	}
	require.Equal(t, []string{
		observability.StageSplit, observability.StagePrune, observability.StageReduce, observability.StageGrid,
	}, stages)

	last := events[len(events)-1]
	require.Equal(t, EventResult, last.Type)
	require.NotNil(t, last.Result)
	require.Equal(t, last.Result.Stats.Rooms, len(last.Result.Layout.Rooms))

	// The connection serves further requests.
	require.NoError(t, wsjson.Write(ctx, conn, GenerateRequest{Options: pipeline.Options{Strategy: "sideways"}}))
	events = readUntilDone(t, ctx, conn)
	last = events[len(events)-1]
	require.Equal(t, EventError, last.Type)
	require.Equal(t, errs.ErrCodeInvalidStrategy, last.Error.Code)
}

func TestStreamBadMessage(t *testing.T) {
	_, ts := newTestServer(t)
	conn, ctx := dialStream(t, ts)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`{"bogus": true}`)))
	events := readUntilDone(t, ctx, conn)
	require.Len(t, events, 1)
	require.Equal(t, errs.ErrCodeInvalidInput, events[0].Error.Code)
}
