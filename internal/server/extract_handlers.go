package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labtrack/backend/internal/auth"
	"github.com/labtrack/backend/internal/extraction"
)

// maxUploadBytes caps the whole multipart request.
const maxUploadBytes = 32 << 20

type extractFailure struct {
	FileName string `json:"fileName"`
	Error    string `json:"error"`
}

type extractResponse struct {
	Reports  []*extraction.Report `json:"reports"`
	Failures []extractFailure     `json:"failures,omitempty"`
}

// handleExtract runs the extraction pipeline over every uploaded file.
// Files are processed independently; one failing file is reported in
// failures without affecting the others. Nothing is persisted here;
// the client reviews the reports and submits them for ingestion.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	resp := extractResponse{Reports: make([]*extraction.Report, 0, len(files))}
	for _, header := range files {
		report, err := s.extractFile(r, header)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", header.Filename).
				Str("userId", identity.UserID).Msg("extraction failed for file")
			resp.Failures = append(resp.Failures, extractFailure{
				FileName: header.Filename,
				Error:    extractionErrorMessage(err),
			})
			continue
		}
		resp.Reports = append(resp.Reports, report)
	}

	status := http.StatusOK
	if len(resp.Reports) == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) extractFile(r *http.Request, header *multipart.FileHeader) (*extraction.Report, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return s.extractor.ExtractReport(r.Context(), data, header.Filename)
}

// extractionErrorMessage maps pipeline errors to messages safe to show
// the uploader.
func extractionErrorMessage(err error) string {
	var docErr *extraction.DocumentError
	if errors.As(err, &docErr) {
		return docErr.Reason
	}
	var allFailed *extraction.AllModelsFailedError
	if errors.As(err, &allFailed) {
		return "all vision models failed to process this document"
	}
	var malformed *extraction.MalformedExtractionError
	if errors.As(err, &malformed) {
		return "the model response could not be parsed"
	}
	return "extraction failed"
}
