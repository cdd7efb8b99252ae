package server

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/Wesbraak3/Dungeon-Generator/pkg/errors"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/httputil"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/layout"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// =============================================================================
// Wire Types
// =============================================================================

// GenerateRequest is the body of POST /v1/generate. Formats other than json
// are returned as text in Artifacts.
type GenerateRequest struct {
	pipeline.Options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Spatial  bool     `json:"spatial,omitempty"`
}

// GenerateResponse describes one generated dungeon.
type GenerateResponse struct {
	ID         string             `json:"id"`
	Seed       uint64             `json:"seed"`
	LayoutHash string             `json:"layout_hash"`
	Layout     layout.Layout      `json:"layout"`
	Stats      pipeline.Stats     `json:"stats"`
	Cache      pipeline.CacheInfo `json:"cache"`
	Warnings   []string           `json:"warnings,omitempty"`
	Artifacts  map[string]string  `json:"artifacts,omitempty"`
}

// PathRequest is the body of POST /v1/path.
type PathRequest struct {
	Options pipeline.Options `json:"options"`
	pipeline.PathQuery
	Map bool `json:"map,omitempty"` // include the ascii map with the route drawn
}

// PathResponse is the answer to a PathRequest.
type PathResponse struct {
	ID         string               `json:"id"`
	Seed       uint64               `json:"seed"`
	LayoutHash string               `json:"layout_hash"`
	Found      bool                 `json:"found"`
	Result     *pipeline.PathResult `json:"result"`
	Map        string               `json:"map,omitempty"`
}

func newGenerateResponse(res *pipeline.Result) GenerateResponse {
	return GenerateResponse{
		ID:         res.ID,
		Seed:       res.Seed,
		LayoutHash: res.LayoutHash,
		Layout:     res.Layout,
		Stats:      res.Stats,
		Cache:      res.CacheInfo,
		Warnings:   res.Warnings,
	}
}

// =============================================================================
// Handlers
// =============================================================================

// execute runs the pipeline with the server's hooks and logger unless the
// options bring their own.
func (s *Server) execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	if opts.Hooks == nil {
		opts.Hooks = s.pipelineHooks
	}
	if opts.Logger == nil {
		opts.Logger = s.Logger
	}
	return s.Runner.Execute(ctx, opts)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := pipeline.ValidateFormats(req.Formats); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.execute(r.Context(), req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := newGenerateResponse(res)

	var extra []string
	for _, f := range req.Formats {
		if f != pipeline.FormatJSON {
			extra = append(extra, f)
		}
	}
	if len(extra) > 0 {
		artifacts, err := s.Runner.Render(r.Context(), res, pipeline.RenderOptions{
			Formats:  extra,
			Detailed: req.Detailed,
			Spatial:  req.Spatial,
		})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Artifacts = make(map[string]string, len(artifacts))
		for f, data := range artifacts {
			resp.Artifacts[f] = string(data)
		}
		resp.Cache.RenderHit = res.CacheInfo.RenderHit
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.execute(r.Context(), req.Options)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pr, err := s.Runner.Path(r.Context(), res, req.PathQuery)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := PathResponse{
		ID:         res.ID,
		Seed:       res.Seed,
		LayoutHash: res.LayoutHash,
		Found:      pr.Found(),
		Result:     pr,
	}
	if req.Map {
		art, err := pipeline.RenderFormat(r.Context(), res, pipeline.FormatASCII, pipeline.RenderOptions{Path: pr})
		if err != nil {
			s.fail(w, r, err)
			return
		}
		resp.Map = string(art)
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:  "application/json",
	pipeline.FormatDOT:   "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:   "image/svg+xml",
	pipeline.FormatASCII: "text/plain; charset=utf-8",
	pipeline.FormatTiles: "application/json",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}
	opts, ro, err := optionsFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.execute(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ro.Formats = []string{format}
	artifacts, err := s.Runner.Render(r.Context(), res, ro)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Dungeon-Seed", strconv.FormatUint(res.Seed, 10))
	w.Header().Set("X-Layout-Hash", res.LayoutHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

// optionsFromQuery reads generation options from query parameters named
// like the JSON fields.
func optionsFromQuery(q url.Values) (pipeline.Options, pipeline.RenderOptions, error) {
	var opts pipeline.Options
	var ro pipeline.RenderOptions

	ints := map[string]*int{
		"x":                 &opts.X,
		"y":                 &opts.Y,
		"width":             &opts.Width,
		"height":            &opts.Height,
		"min_room_size":     &opts.MinRoomSize,
		"door_width":        &opts.DoorWidth,
		"clearance":         &opts.Clearance,
		"percent_to_remove": &opts.PercentToRemove,
		"keep_loops":        &opts.KeepLoops,
	}
	for name, dst := range ints {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, ro, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"strict_doors": &opts.StrictDoors,
		"strict_prune": &opts.StrictPrune,
		"refresh":      &opts.Refresh,
		"detailed":     &ro.Detailed,
		"spatial":      &ro.Spatial,
	}
	for name, dst := range bools {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, ro, errs.New(errs.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
		}
		*dst = b
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, ro, errs.New(errs.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = seed
	}
	opts.Strategy = q.Get("strategy")
	return opts, ro, nil
}
