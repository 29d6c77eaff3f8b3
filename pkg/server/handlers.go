package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/carousel/pkg/buildinfo"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/pipeline"
	"github.com/matzehuels/carousel/pkg/preset"
)

// CacheHeader reports which pipeline stages were served from cache.
const CacheHeader = "X-Carousel-Cache"

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// PresetRequest is the body of PUT /v1/presets/{name}.
type PresetRequest struct {
	Description string           `json:"description,omitempty"`
	Options     pipeline.Options `json:"options"`
}

// PresetList is the body of GET /v1/presets.
type PresetList struct {
	Presets []*preset.Preset `json:"presets"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Layout
// =============================================================================

func (s *Server) handleKeylines(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	opts.Logger = loggerFrom(r.Context(), s.logger)

	l, hit, err := s.runner.KeylinesWithCacheInfo(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(CacheHeader, cacheState(hit))
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &opts); err != nil {
		writeError(w, r, err)
		return
	}
	s.execute(w, r, opts)
}

func (s *Server) execute(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Logger = loggerFrom(r.Context(), s.logger)
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(CacheHeader, "keylines="+cacheState(result.CacheInfo.KeylinesHit)+
		", placements="+cacheState(result.CacheInfo.PlaceHit))
	writeJSON(w, http.StatusOK, result.Layout)
}

func cacheState(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Presets
// =============================================================================

func (s *Server) presets(w http.ResponseWriter, r *http.Request) (preset.Store, bool) {
	if s.store == nil {
		writeError(w, r, errors.New(errors.ErrCodeUnsupported, "preset storage is not configured"))
		return nil, false
	}
	return s.store, true
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	store, ok := s.presets(w, r)
	if !ok {
		return
	}
	list, err := store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*preset.Preset{}
	}
	writeJSON(w, http.StatusOK, PresetList{Presets: list})
}

func (s *Server) handlePutPreset(w http.ResponseWriter, r *http.Request) {
	store, ok := s.presets(w, r)
	if !ok {
		return
	}
	var req PresetRequest
	if err := decodeJSON(w, r, s.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := preset.New(chi.URLParam(r, "name"), req.Description, req.Options)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := store.Save(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	store, ok := s.presets(w, r)
	if !ok {
		return
	}
	p, err := store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	store, ok := s.presets(w, r)
	if !ok {
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresetLayout(w http.ResponseWriter, r *http.Request) {
	store, ok := s.presets(w, r)
	if !ok {
		return
	}
	p, err := store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	opts := p.Options.Clone()
	if raw := r.URL.Query().Get("scroll"); raw != "" {
		scroll, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "scroll must be a number, got %q", raw))
			return
		}
		opts.Scroll = scroll
	}
	s.execute(w, r, opts)
}
