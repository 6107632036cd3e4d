package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RahilHalai7/CSI-Hackathon/constants"
	"github.com/RahilHalai7/CSI-Hackathon/internal/asr"
	"github.com/RahilHalai7/CSI-Hackathon/internal/jobstore"
	processor "github.com/RahilHalai7/CSI-Hackathon/internal/pipeline"
	"github.com/RahilHalai7/CSI-Hackathon/internal/translate"
)

// processRequest is the POST /process body. Path must point at a local file.
type processRequest struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`

	// document options
	PageRange string `json:"page_range,omitempty"`
	ForceOCR  bool   `json:"force_ocr,omitempty"`

	// audio options
	Diarize bool `json:"diarize,omitempty"`

	// text options
	Target         string `json:"target,omitempty"`
	LineMode       bool   `json:"line_mode,omitempty"`
	PreserveLabels bool   `json:"preserve_labels,omitempty"`
}

type processResponse struct {
	Status       string `json:"status"`
	Type         string `json:"type"`
	JobID        string `json:"job_id,omitempty"`
	Output       string `json:"output,omitempty"`
	SpeakerCount int    `json:"speaker_count,omitempty"`
	Message      string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Processing server is running",
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "valid 'path' to local file is required")
		return
	}
	data, err := os.ReadFile(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read input: %v", err))
		return
	}

	base := strings.TrimSuffix(filepath.Base(req.Path), filepath.Ext(req.Path))
	kind := constants.MapExtToKind(filepath.Ext(req.Path))

	switch kind {
	case constants.AUDIO:
		samples, rate, err := asr.DecodeWAV(data)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("decode audio (mono 16-bit WAV required): %v", err))
			return
		}
		lang := req.Language
		if lang == "" {
			lang = "en-IN"
		}
		res, err := s.pipeline.ProcessAudio(r.Context(), processor.AudioRequest{
			Source: filepath.Base(req.Path),
			Audio: asr.Request{
				Samples:      samples,
				SampleRate:   rate,
				LanguageCode: lang,
				Diarize:      req.Diarize,
			},
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("processing failed: %v", err))
			return
		}
		out, err := s.saveText(base, res.Text, "google_stt")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, processResponse{
			Status:       "ok",
			Type:         "audio",
			JobID:        res.JobID,
			Output:       out,
			SpeakerCount: res.SpeakerCount,
			Message:      "Audio processed via Google STT",
		})

	case constants.PDF:
		res, err := s.pipeline.ProcessDocument(r.Context(), processor.DocumentRequest{
			Source:    filepath.Base(req.Path),
			Document:  data,
			PageRange: req.PageRange,
			ForceOCR:  req.ForceOCR,
			LangHint:  req.Language,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("processing failed: %v", err))
			return
		}
		out, err := s.saveText(base, res.Text, "extracted")
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, processResponse{
			Status:  "ok",
			Type:    "pdf",
			JobID:   res.JobID,
			Output:  out,
			Message: "PDF processed via OCR/Text and structured",
		})

	case constants.TEXT:
		target := req.Target
		if target == "" {
			target = "en"
		}
		res, err := s.pipeline.ProcessText(r.Context(), processor.TextRequest{
			Source: filepath.Base(req.Path),
			Text:   string(data),
			Opts: translate.Options{
				Source:         req.Language,
				Target:         target,
				LineMode:       req.LineMode,
				PreserveLabels: req.PreserveLabels,
			},
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("processing failed: %v", err))
			return
		}
		out, err := s.saveText(base, res.Text, "translated_"+target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, processResponse{
			Status:  "ok",
			Type:    "text",
			JobID:   res.JobID,
			Output:  out,
			Message: "Text translated via LibreTranslate",
		})

	default:
		writeJSON(w, http.StatusOK, processResponse{
			Status:  "unsupported",
			Type:    "unsupported",
			Message: "Only audio (wav), PDF and txt are supported",
		})
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := s.store.Get(r.Context(), id)
	if errors.Is(err, jobstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobJSON(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.List(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]map[string]any, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobJSON(j))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExportJobs(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ExportJobsXLSX(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="jobs.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) saveText(base, text, suffix string) (string, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s_%s.txt", base, suffix, time.Now().Format("20060102_150405"))
	path := filepath.Join(s.cfg.OutputDir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	return path, nil
}

func jobJSON(j jobstore.Job) map[string]any {
	return map[string]any{
		"id":            j.ID,
		"source":        j.Source,
		"kind":          j.Kind,
		"method":        j.Method,
		"language":      j.Language,
		"speaker_count": j.SpeakerCount,
		"status":        string(j.Status),
		"error":         j.Error,
		"created_at":    j.CreatedAt.Format(time.RFC3339),
		"updated_at":    j.UpdatedAt.Format(time.RFC3339),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
