package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/buildinfo"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
)

// Response headers set by the composite endpoint.
const (
	HeaderCells = "X-Cells"
	HeaderSeed  = "X-Seed"
	HeaderCache = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := RequestIDFromContext(ctx)

	opts, err := parseOptions(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := io.OutputFormat(io.FormatPNG, opts.Format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in bytes.Buffer
	if _, err := in.ReadFrom(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := io.ReadFrame(&in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.ProcessFrame(ctx, id, f, opts.Seed, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := io.WriteFrame(&buf, res.Frame, format, opts.WriteOptions()); err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheHit {
		cacheStatus = "hit"
	}
	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	h.Set(HeaderCells, strconv.Itoa(len(res.Cells)))
	h.Set(HeaderSeed, strconv.FormatUint(res.Seed, 10))
	h.Set(HeaderCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write response", "request_id", id, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
