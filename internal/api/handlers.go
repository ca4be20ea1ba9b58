package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/lead-qualifier/internal/lead"
	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

type messageResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

type scoreRequest struct {
	Scores  leadscore.RawScores `json:"scores"`
	Profile string              `json:"profile"`
}

type profilesResponse struct {
	Default  string              `json:"default"`
	Profiles []leadscore.Profile `json:"profiles"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	now := s.now()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: float64(now.UnixNano()) / 1e9,
	})
}

func (s *Server) handleAnalyzeLead(w http.ResponseWriter, r *http.Request) {
	var req lead.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			writeMessage(w, http.StatusBadRequest, "URL is required")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		var verr *lead.ValidationError
		if errors.As(err, &verr) {
			writeMessage(w, http.StatusBadRequest, verr.Message)
			return
		}
		zap.L().Error("api: analyze lead", zap.String("url", req.URL), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError,
			fmt.Sprintf("An error occurred while analyzing the lead: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile := s.analyzer.Profile()
	if req.Profile != "" {
		p, err := leadscore.Lookup(req.Profile)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Unknown scoring profile: %s", req.Profile))
			return
		}
		profile = p
	}

	writeJSON(w, http.StatusOK, profile.Compute(req.Scores))
}

func (s *Server) handleScoringProfiles(w http.ResponseWriter, _ *http.Request) {
	names := leadscore.Profiles()
	resp := profilesResponse{
		Default:  s.analyzer.Profile().Name,
		Profiles: make([]leadscore.Profile, 0, len(names)),
	}
	for _, name := range names {
		p, err := leadscore.Lookup(name)
		if err != nil {
			continue
		}
		resp.Profiles = append(resp.Profiles, p)
	}
	writeJSON(w, http.StatusOK, resp)
}
