package server

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"docqa/internal/corpus"
	"docqa/internal/logger"
	"docqa/internal/prompt"
	"docqa/internal/service"
	"docqa/internal/session"
)

// multipart parts above this size spill to disk
const maxUploadMemory = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	ctxzap.Extract(r.Context()).Info("session created", zap.String("session_id", sess.ID()))
	s.respondJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ctx := logger.WithSession(r.Context(), sess.ID())

	if limit := s.config.MaxUploadBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}
	uploads, closeAll, err := openUploads(headers)
	defer closeAll()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch, err := s.library.Upload(uploads)
	if err != nil {
		if errors.Is(err, corpus.ErrNotPDF) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		ctxzap.Extract(ctx).Error("upload failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sess.ReplaceCorpus(batch.Corpus, batch.StagingDir); err != nil {
		if errors.Is(err, session.ErrClosed) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		ctxzap.Extract(ctx).Warn("remove previous uploads", zap.Error(err))
	}
	ctxzap.Extract(ctx).Info("documents uploaded",
		zap.Int("documents", len(batch.Corpus)),
		zap.Int("failures", batch.Corpus.Failures()))
	s.respondJSON(w, http.StatusOK, documentsResponse{
		Message:   service.ProcessedMessage(len(batch.Corpus)),
		Documents: toDocumentDTOs(batch.Corpus),
	})
}

func openUploads(headers []*multipart.FileHeader) ([]corpus.Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	uploads := make([]corpus.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return nil, closeAll, err
		}
		files = append(files, f)
		uploads = append(uploads, corpus.Upload{Name: h.Filename, Data: f})
	}
	return uploads, closeAll, nil
}

func (s *Server) handleScanDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ctx := logger.WithSession(r.Context(), sess.ID())
	batch, err := s.library.Scan(s.libDir)
	if err != nil {
		if errors.Is(err, corpus.ErrNoPDFs) {
			s.respondError(w, http.StatusNotFound, "No PDF files found")
			return
		}
		ctxzap.Extract(ctx).Error("scan failed", zap.String("dir", s.libDir), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := sess.ReplaceCorpus(batch.Corpus, ""); err != nil {
		if errors.Is(err, session.ErrClosed) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		ctxzap.Extract(ctx).Warn("remove previous uploads", zap.Error(err))
	}
	s.respondJSON(w, http.StatusOK, documentsResponse{
		Message:   service.ProcessedMessage(len(batch.Corpus)),
		Documents: toDocumentDTOs(batch.Corpus),
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, documentsResponse{Documents: toDocumentDTOs(sess.Corpus())})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ctx := logger.WithSession(r.Context(), sess.ID())

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query must not be empty")
		return
	}

	answer, err := sess.Ask(ctx, s.assistant, query)
	if err != nil {
		if errors.Is(err, prompt.ErrPromptTooLarge) || errors.Is(err, prompt.ErrTooManyDocuments) {
			s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		ctxzap.Extract(ctx).Error("answer failed", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, historyResponse{Messages: sess.History()})
}

// session resolves the {id} URL parameter, answering 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
