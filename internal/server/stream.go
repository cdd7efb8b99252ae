package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/httputil"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
)

// Stream event types.
const (
	EventGenerateStart = "generate_start"
	EventStageStart    = "stage_start"
	EventStageComplete = "stage_complete"
	EventResult        = "result"
	EventError         = "error"
)

const writeTimeout = 5 * time.Second

// StreamEvent is one message the server sends on /v1/stream.
type StreamEvent struct {
	Type     string              `json:"type"`
	Stage    string              `json:"stage,omitempty"`
	Seed     uint64              `json:"seed,omitempty"`
	Strategy string              `json:"strategy,omitempty"`
	Count    int                 `json:"count,omitempty"`
	Duration time.Duration       `json:"duration_ns,omitempty"`
	Result   *GenerateResponse   `json:"result,omitempty"`
	Error    *httputil.ErrorBody `json:"error,omitempty"`
}

// handleStream upgrades to a websocket. Each text message the client sends
// is a GenerateRequest; the server answers with the stage events of that
// run followed by a result or error event.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		s.Logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(httputil.MaxBodyBytes)

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				s.Logger.Debug("stream closed", "err", err)
			}
			return
		}
		if err := s.streamRun(ctx, conn, data); err != nil {
			s.Logger.Debug("stream write failed", "err", err)
			return
		}
	}
}

// streamRun serves one request on conn. Only write failures are returned.
func (s *Server) streamRun(ctx context.Context, conn *websocket.Conn, data []byte) error {
	sink := &streamHooks{ctx: ctx, conn: conn}

	var req GenerateRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		sink.fail(errs.Wrap(errs.ErrCodeInvalidInput, err, "decode stream request"))
		return sink.err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	opts := req.Options
	opts.Hooks = observability.Multi(sink, s.pipelineHooks)
	res, err := s.execute(runCtx, opts)
	if err != nil {
		sink.fail(err)
		return sink.err
	}
	resp := newGenerateResponse(res)
	sink.send(StreamEvent{Type: EventResult, Seed: res.Seed, Result: &resp})
	return sink.err
}

// streamHooks forwards pipeline events to a websocket. The first write
// error is kept and later events are dropped.
type streamHooks struct {
	ctx  context.Context
	conn *websocket.Conn
	err  error
}

func (h *streamHooks) send(ev StreamEvent) {
	if h.err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
	defer cancel()
	h.err = wsjson.Write(ctx, h.conn, ev)
}

func (h *streamHooks) fail(err error) {
	_, body := httputil.ErrorResponse(err)
	h.send(StreamEvent{Type: EventError, Error: &body})
}

func (h *streamHooks) OnGenerateStart(_ context.Context, seed uint64, strategy string) {
	h.send(StreamEvent{Type: EventGenerateStart, Seed: seed, Strategy: strategy})
}

func (h *streamHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {}

func (h *streamHooks) OnStageStart(_ context.Context, stage string) {
	h.send(StreamEvent{Type: EventStageStart, Stage: stage})
}

func (h *streamHooks) OnStageComplete(_ context.Context, stage string, count int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.send(StreamEvent{Type: EventStageComplete, Stage: stage, Count: count, Duration: d})
}
