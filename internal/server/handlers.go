package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/techpack-csv/internal/fileutils"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"
	"fjacquet/techpack-csv/internal/repository"

	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a form is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateResponse is the body of a successful upload.
type CreateResponse struct {
	Success       bool   `json:"success"`
	ID            string `json:"id"`
	StyleID       string `json:"styleId"`
	ExtractedText string `json:"extractedText"`
	Message       string `json:"message"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := errorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreate accepts a multipart form with a "pdf" file and a "metadata"
// JSON object, builds the record and stores it.
// POST /api/tech-packs
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload exceeds size limit", err)
			return
		}
		writeError(w, http.StatusBadRequest, "Missing metadata or PDF file", err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	rawMetadata := r.FormValue("metadata")
	file, header, fileErr := r.FormFile("pdf")
	if strings.TrimSpace(rawMetadata) == "" || fileErr != nil {
		writeError(w, http.StatusBadRequest, "Missing metadata or PDF file", nil)
		return
	}
	defer file.Close()

	md, err := models.ParseMetadataJSON([]byte(rawMetadata))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid metadata", err)
		return
	}

	filename := filepath.Base(header.Filename)
	logger := s.logger.WithField(logging.FieldInputFile, filename)

	tmpPath, err := fileutils.SpoolToTemp(file, "techpack-*.pdf")
	if err != nil {
		logger.WithError(err).Error("Failed to buffer upload")
		writeError(w, http.StatusInternalServerError, "Failed to upload techpack", err)
		return
	}
	defer os.Remove(tmpPath)

	res, err := s.processor.ProcessFile(r.Context(), tmpPath, filename, md)
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		var validationErr *parsererror.ValidationError
		switch {
		case errors.As(err, &formatErr):
			writeError(w, http.StatusUnsupportedMediaType, "Uploaded file is not a PDF", err)
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, "Invalid metadata", err)
		default:
			logger.WithError(err).Error("Failed to process tech pack")
			writeError(w, http.StatusInternalServerError, "Failed to process PDF", err)
		}
		return
	}

	saved, err := s.repo.Save(r.Context(), res.Record)
	if err != nil {
		logger.WithError(err).Error("Failed to save tech pack")
		writeError(w, http.StatusInternalServerError, "Failed to upload techpack", err)
		return
	}

	logger.Info("Tech pack created",
		logging.Field{Key: logging.FieldRecordID, Value: saved.ID},
		logging.Field{Key: logging.FieldStyleID, Value: saved.StyleID})

	writeJSON(w, http.StatusCreated, CreateResponse{
		Success:       true,
		ID:            saved.ID,
		StyleID:       saved.StyleID,
		ExtractedText: saved.ExtractedText,
		Message:       "Tech pack created successfully",
	})
}

// handleList returns stored records, newest first.
// GET /api/tech-packs?limit=&offset=
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid offset", err)
		return
	}

	records, err := s.repo.List(r.Context(), limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list tech packs")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tech packs", err)
		return
	}
	if records == nil {
		records = []models.TechPack{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleGet returns one record.
// GET /api/tech-packs/{id}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	tp, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Techpack not found", nil)
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch tech pack")
		writeError(w, http.StatusInternalServerError, "Failed to fetch tech pack", err)
		return
	}
	writeJSON(w, http.StatusOK, tp)
}

// handleUpdateStatus moves a record through the review workflow.
// PATCH /api/tech-packs/{id}/status
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !models.IsValidStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status", errors.New("status must be one of draft, submitted, approved, rejected"))
		return
	}

	id := chi.URLParam(r, "id")
	tp, err := s.repo.Get(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Techpack not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Update failed", err)
		return
	}

	previous := tp.Status
	tp.Status = status
	saved, err := s.repo.Save(r.Context(), tp)
	if err != nil {
		s.logger.WithError(err).Error("Failed to update tech pack status")
		writeError(w, http.StatusInternalServerError, "Update failed", err)
		return
	}

	s.logger.Info("Tech pack status changed",
		logging.Field{Key: logging.FieldRecordID, Value: id},
		logging.Field{Key: "from", Value: previous},
		logging.Field{Key: logging.FieldStatus, Value: status})
	writeJSON(w, http.StatusOK, saved)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return n, nil
}
