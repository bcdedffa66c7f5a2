package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/samber/lo"

	"github.com/teklini/nanogen"
)

type stateResponse struct {
	Mode         string `json:"mode"`
	Prompt       string `json:"prompt"`
	HasSource    bool   `json:"hasSource"`
	SourceURL    string `json:"sourceUrl,omitempty"`
	AspectRatio  string `json:"aspectRatio"`
	ResultURL    string `json:"resultUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	Phase        string `json:"phase"`
}

type historyItemResponse struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Prompt      string `json:"prompt"`
	Timestamp   int64  `json:"timestamp"`
	Mode        string `json:"mode"`
	AspectRatio string `json:"aspectRatio"`
}

type resultResponse struct {
	ImageURL  string `json:"imageUrl"`
	Prompt    string `json:"prompt"`
	Timestamp int64  `json:"timestamp"`
}

func stateToResponse(state nanogen.State) stateResponse {
	resp := stateResponse{
		Mode:         state.Mode.String(),
		Prompt:       state.Prompt,
		HasSource:    state.SourceImage != nil,
		AspectRatio:  state.AspectRatio.String(),
		ErrorMessage: state.ErrorMessage,
		Phase:        string(state.Phase),
	}
	if state.SourceImage != nil {
		resp.SourceURL = state.SourceImage.DataURL()
	}
	if state.Result != nil {
		resp.ResultURL = state.Result.ImageURL
	}
	return resp
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := s.studio.SetMode(nanogen.Mode(req.Mode)); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleSetPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	s.studio.SetPrompt(req.Prompt)
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleSetAspectRatio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AspectRatio string `json:"aspectRatio"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := s.studio.SetAspectRatio(nanogen.AspectRatio(req.AspectRatio)); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleUploadSource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, nanogen.MaxSourceImageSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}

	declaredType := header.Header.Get("Content-Type")
	if declaredType == "" {
		declaredType = http.DetectContentType(raw)
	}

	if err := s.studio.AttachSource(raw, declaredType); err != nil {
		if errors.Is(err, nanogen.ErrInvalidFileType) {
			s.error(w, http.StatusBadRequest, "invalid_file_type", "only image uploads are supported")
			return
		}
		s.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleClearSource(w http.ResponseWriter, r *http.Request) {
	s.studio.ClearSource()
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	result, err := s.studio.Generate(r.Context())
	if err != nil {
		state := s.studio.Snapshot()
		if nanogen.IsValidationError(err) {
			s.error(w, http.StatusBadRequest, "validation_error", state.ErrorMessage)
			return
		}
		s.error(w, http.StatusBadGateway, "generation_failed", state.ErrorMessage)
		return
	}

	s.json(w, http.StatusOK, resultResponse{
		ImageURL:  result.ImageURL,
		Prompt:    result.Prompt,
		Timestamp: result.Timestamp.UnixMilli(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	items := lo.Map(s.studio.History(), func(item nanogen.HistoryItem, _ int) historyItemResponse {
		return historyItemResponse{
			ID:          item.ID,
			ImageURL:    item.ImageURL,
			Prompt:      item.Prompt,
			Timestamp:   item.Timestamp.UnixMilli(),
			Mode:        item.Mode.String(),
			AspectRatio: item.AspectRatio.String(),
		}
	})
	s.json(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	s.studio.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]any{"presets": nanogen.BuiltinPresets})
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	preset, ok := nanogen.FindPreset(req.Name)
	if !ok {
		s.error(w, http.StatusNotFound, "not_found", "unknown preset")
		return
	}

	s.studio.ApplyPreset(preset)
	s.json(w, http.StatusOK, stateToResponse(s.studio.Snapshot()))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	saved, err := s.studio.SaveResult(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, nanogen.ErrStorageNotConfigured):
			s.error(w, http.StatusNotImplemented, "storage_not_configured", "no storage backend is configured")
		case errors.Is(err, nanogen.ErrNoImageInResponse):
			s.error(w, http.StatusConflict, "no_result", "nothing to download yet")
		default:
			s.error(w, http.StatusInternalServerError, "internal", err.Error())
		}
		return
	}

	s.json(w, http.StatusOK, map[string]any{
		"url":  saved.URL,
		"path": saved.Path,
		"size": saved.Size,
	})
}
