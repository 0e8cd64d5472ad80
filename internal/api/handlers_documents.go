package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/structree/internal/parser"
	"github.com/dgallion1/structree/internal/pipeline"
	"github.com/dgallion1/structree/internal/render"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with slack for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	docID := r.FormValue("doc_id")
	if docID == "" {
		docID = pipeline.NewID()
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        pipeline.NewID(),
		DocID:     docID,
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     r.FormValue("title"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ids := s.orchestrator.Results().List()
	docs := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		res := s.orchestrator.Results().Get(id)
		if res == nil {
			continue
		}
		docs = append(docs, map[string]any{
			"doc_id":     res.DocID,
			"filename":   res.Filename,
			"title":      res.Title,
			"node_count": res.Tree.NodeCount,
			"leaf_count": res.Tree.LeafCount,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleGetTree serves the built tree; ?format=json|ascii|html selects the
// rendition, json by default.
func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	res := s.orchestrator.Results().Get(chi.URLParam(r, "docID"))
	if res == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		body, err := render.TreeJSON(res.Tree)
		if err != nil {
			jsonError(w, "render tree: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	case "ascii":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, render.TreeASCII(res.Tree))
	case "html":
		body, err := render.TreeHTML(res.Tree)
		if err != nil {
			jsonError(w, "render tree: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	default:
		jsonError(w, "unknown format, want json, ascii, or html", http.StatusBadRequest)
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	res := s.orchestrator.Results().Get(chi.URLParam(r, "docID"))
	if res == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Report)
}

func (s *Server) handleGetChunks(w http.ResponseWriter, r *http.Request) {
	res := s.orchestrator.Results().Get(chi.URLParam(r, "docID"))
	if res == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": res.DocID,
		"chunks": res.Chunks,
	})
}

// handleDeleteDocument drops the in-memory result and, when a tree store is
// configured, the stored node records.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	found := s.orchestrator.Results().Delete(docID)

	storeDeleted := false
	if sc := s.orchestrator.StoreClient(); sc != nil {
		if err := sc.DeleteTree(r.Context(), docID); err != nil {
			s.log.Warn("tree store delete failed", "doc_id", docID, "error", err)
		} else {
			storeDeleted = true
		}
	}

	if !found && !storeDeleted {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id":        docID,
		"deleted":       found,
		"store_deleted": storeDeleted,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
