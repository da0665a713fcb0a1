package api

import (
	"io"
	"mime"
	"net/http"

	"github.com/MikeSquared-Agency/knowji/internal/apperr"
	"github.com/MikeSquared-Agency/knowji/internal/content"
)

// maxUploadBytes bounds a multipart pdf upload.
const maxUploadBytes = 32 << 20

type processRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type actionStepsRequest struct {
	Summary       string `json:"summary"`
	Goal          string `json:"goal"`
	HabitStruggle string `json:"habit_struggle"`
}

type actionStepsResponse struct {
	ActionSteps []string `json:"action_steps"`
}

// process handles POST /api/v1/process
func (s *Server) process(w http.ResponseWriter, r *http.Request) {
	in, err := readInput(w, r)
	if err != nil {
		s.fail(w, "read input", err)
		return
	}

	result, err := s.proc.ProcessContent(r.Context(), in)
	if err != nil {
		s.fail(w, "process content", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readInput accepts a JSON body or a multipart form carrying a pdf file.
func readInput(w http.ResponseWriter, r *http.Request) (content.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req processRequest
		if err := decodeJSON(r, &req); err != nil {
			return content.Input{}, err
		}
		kind, err := content.ParseKind(req.Type)
		if err != nil {
			return content.Input{}, err
		}
		return content.Input{Kind: kind, Payload: req.Content}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return content.Input{}, apperr.Wrap(apperr.FileReadError, "parse upload", err)
	}
	if t := r.FormValue("type"); t != "" && t != string(content.KindPDF) {
		return content.Input{}, apperr.New(apperr.UnsupportedType, "parse upload", "file uploads must be pdf, got "+t)
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		return content.Input{}, apperr.Wrap(apperr.MissingParameter, "parse upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return content.Input{}, apperr.Wrap(apperr.FileReadError, "read upload", err)
	}
	return content.Input{
		Kind: content.KindPDF,
		File: &content.File{Name: header.Filename, Data: data},
	}, nil
}

// actionSteps handles POST /api/v1/action-steps
func (s *Server) actionSteps(w http.ResponseWriter, r *http.Request) {
	var req actionStepsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, "decode action steps", err)
		return
	}

	steps, err := s.proc.GenerateActionSteps(r.Context(), req.Summary, req.Goal, req.HabitStruggle)
	if err != nil {
		s.fail(w, "generate action steps", err)
		return
	}
	writeJSON(w, http.StatusOK, actionStepsResponse{ActionSteps: steps})
}
