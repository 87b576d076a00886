package httpapi

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/mailgate/internal/common"
	"github.com/dmitrijs2005/mailgate/internal/server/services"
)

// multipartMemory is the in-memory part of a multipart body; the rest spills
// to temporary files and is still bounded by maxBytes.
const multipartMemory = 1 << 20

type statusResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
	}

	if err := parseForm(r); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.logger.Warn(ctx, "webhook body too large", "limit", tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, statusResponse{Status: "too_large"})
			return
		}
		s.logger.Warn(ctx, "webhook form parse failed", "error", err)
		writeJSON(w, http.StatusNotAcceptable, statusResponse{Status: "invalid"})
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	env := services.Envelope{
		Recipient: r.PostFormValue("recipient"),
		Sender:    r.PostFormValue("sender"),
		Subject:   r.PostFormValue("subject"),
		BodyPlain: r.PostFormValue("body-plain"),
	}

	res, err := s.ingest.Ingest(ctx, env)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			s.logger.Warn(ctx, "webhook rejected", "error", err)
			writeJSON(w, http.StatusNotAcceptable, statusResponse{Status: "invalid"})
			return
		}
		s.logger.Error(ctx, "webhook ingest failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error"})
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: res.Status})
}

// parseForm reads a urlencoded or multipart body. ParseMultipartForm hides
// urlencoded read errors behind ErrNotMultipart, so the media type is checked
// first.
func parseForm(r *http.Request) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
