package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dumpersafety/dumperwatch/model"
	"github.com/dumpersafety/dumperwatch/session"
	"github.com/gorilla/mux"

	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type selectResponse struct {
	Status  session.Status `json:"status"`
	File    string         `json:"file"`
	Warning string         `json:"warning,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("error encoding response: %v", err)
	}
}

// kindFromRequest resolves the {kind} path segment ("image" or "video").
func kindFromRequest(r *http.Request) (model.Kind, error) {
	return model.ParseKind(mux.Vars(r)["kind"])
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid login request"})
		return
	}
	token, ok := s.auth.login(req.Username, req.Password)
	if !ok {
		log.WithField("username", req.Username).Info("rejected login attempt")
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.auth.logout(cookie.Value)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing file field"})
		return
	}
	defer part.Close()

	data, err := io.ReadAll(part)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "error reading upload"})
		return
	}

	file := model.File{
		Name:     header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}
	if err := s.dashboard.Select(kind, file); err != nil {
		if errors.Is(err, session.ErrWrongMediaType) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
		return
	}

	resp := selectResponse{Status: session.StatusReady, File: file.Name}
	// The size caps are advisory hints, never hard rejections.
	if warning := s.sizeWarning(kind, file.Size); warning != "" {
		resp.Warning = warning
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) sizeWarning(kind model.Kind, size int64) string {
	limit := s.cfg.MaxImageBytes
	if kind == model.KindVideo {
		limit = s.cfg.MaxVideoBytes
	}
	if limit > 0 && size > limit {
		return "file exceeds the recommended size, detection may be slow or fail"
	}
	return ""
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}

	switch s.dashboard.View(kind).Status {
	case session.StatusIdle:
		writeJSON(w, http.StatusConflict, errorBody{Error: session.ErrNoFileSelected.Error()})
	case session.StatusSubmitting:
		// Duplicate trigger: ignored, not queued. The outstanding request
		// is already driving this session.
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitting"})
	default:
		go func() {
			if err := s.dashboard.Detect(s.baseCtx, kind); err != nil {
				log.WithField("kind", kind).Warnf("detect trigger dropped: %v", err)
			}
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "submitting"})
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	s.dashboard.Clear(kind)
	writeJSON(w, http.StatusOK, map[string]string{"status": string(session.StatusIdle)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.View(kind))
}

func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]model.Kind{"tab": s.dashboard.ActiveTab()})
}

func (s *Server) handleSetTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid tab request"})
		return
	}
	kind, err := model.ParseKind(req.Tab)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.dashboard.SetActiveTab(kind)
	writeJSON(w, http.StatusOK, map[string]model.Kind{"tab": kind})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "history store not configured"})
		return
	}
	entries, err := s.history.RecentDetections(r.Context(), 20)
	if err != nil {
		log.Errorf("error reading detection history: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "error reading history"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"detections": entries})
}
