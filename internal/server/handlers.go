package server

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brickforge/brickmap/pkg/buildinfo"
	"github.com/brickforge/brickmap/pkg/errors"
	"github.com/brickforge/brickmap/pkg/observability"
	"github.com/brickforge/brickmap/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

// ConvertRequest is the JSON body (or the "options" multipart field)
// for POST /v1/convert. Image inputs arrive as multipart file parts
// named "heightmap" and "colormap"; the JSON form only supports
// procedural terrain.
type ConvertRequest struct {
	pipeline.Options
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type versionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(versionResponse{
		Version: buildinfo.Version,
		Commit:  buildinfo.Commit,
		Date:    buildinfo.Date,
	})
}

// handleConvert runs the full conversion pipeline and responds with the
// encoded save file.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	opts, cleanup, err := s.parseConvertRequest(r)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), *opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="generated.brs"`)
	w.Header().Set("X-Input-Hash", result.InputHash)
	w.Header().Set("X-Brick-Count", strconv.Itoa(result.Stats.BrickCount))
	w.Header().Set("X-Cache", cacheStatus(result))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Save)))
	_, _ = w.Write(result.Save)
}

func cacheStatus(result *pipeline.Result) string {
	switch {
	case result.CacheInfo.SaveHit:
		return "hit"
	case result.CacheInfo.BrickHit:
		return "partial"
	default:
		return "miss"
	}
}

// =============================================================================
// Request Parsing
// =============================================================================

// parseConvertRequest decodes either a JSON body (procedural terrain
// only) or a multipart form with uploaded images. The returned cleanup
// removes any temporary upload directory.
func (s *Server) parseConvertRequest(r *http.Request) (*pipeline.Options, func(), error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return s.parseMultipart(r)
	}

	var req ConvertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	// A JSON body carries no image data, so path-based inputs would
	// read from the server's filesystem. Only procedural terrain is
	// allowed here.
	if len(req.Heightmaps) > 0 || req.Colormap != "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"image inputs must be uploaded as multipart form data")
	}
	if !req.Procedural {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"JSON requests must set procedural terrain options")
	}
	return &req.Options, nil, nil
}

func (s *Server) parseMultipart(r *http.Request) (*pipeline.Options, func(), error) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid multipart form")
	}

	var req ConvertRequest
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options field")
		}
	}

	dir, err := os.MkdirTemp("", "brickmap-upload-*")
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInternal, err, "could not create upload dir")
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	heightmaps := r.MultipartForm.File["heightmap"]
	if len(heightmaps) == 0 && !req.Procedural {
		return nil, cleanup, errors.New(errors.ErrCodeInvalidInput,
			"at least one heightmap upload is required")
	}
	req.Heightmaps = nil
	for i, fh := range heightmaps {
		path, err := saveUpload(dir, fmt.Sprintf("heightmap-%d", i), fh)
		if err != nil {
			return nil, cleanup, err
		}
		req.Heightmaps = append(req.Heightmaps, path)
	}

	req.Colormap = ""
	if colormaps := r.MultipartForm.File["colormap"]; len(colormaps) > 0 {
		path, err := saveUpload(dir, "colormap", colormaps[0])
		if err != nil {
			return nil, cleanup, err
		}
		req.Colormap = path
	}

	return &req.Options, cleanup, nil
}

// saveUpload writes one uploaded file into dir, keeping the original
// extension so the decoder can pick the right format.
func saveUpload(dir, base string, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	path := filepath.Join(dir, base+ext)
	if err := errors.ValidateImagePath(path); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "could not read upload %q", fh.Filename)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "could not store upload")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "could not store upload")
	}
	return path, nil
}

// =============================================================================
// Error Mapping
// =============================================================================

// writeError maps pipeline error codes onto HTTP statuses and writes a
// JSON error body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.Host, r.URL.Path, err)

	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidOwner, errors.ErrCodeInvalidPath,
		errors.ErrCodeDimensionMismatch, errors.ErrCodeDecode,
		errors.ErrCodeFileNotFound:
		status = http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		status = http.StatusUnsupportedMediaType
	case errors.ErrCodeCancelled:
		status = http.StatusRequestTimeout
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error: err.Error(),
		Code:  string(errors.GetCode(err)),
	})
}
