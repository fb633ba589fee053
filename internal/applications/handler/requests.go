package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"portal/internal/applications/models"
	"portal/internal/uploads"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/requestcontext"
)

// documentFieldPrefixes name the multipart parts that carry a file for a
// requirement, as "<prefix><requirement id>".
var documentFieldPrefixes = []string{"documento_", "documentos_"}

func optionalID[T any](raw *string, field string, parse func(string) (T, error)) (*T, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v, err := parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, dErrors.Field(field, "identificador inválido")
	}
	return &v, nil
}

type SubmissionRequest struct {
	Procedure   *string `json:"tramite"`
	Program     *string `json:"programa"`
	Description string  `json:"descripcion"`

	input models.Submission
}

func (r *SubmissionRequest) Validate() error {
	proc, err := optionalID(r.Procedure, "tramite", id.ParseProcedureID)
	if err != nil {
		return err
	}
	prog, err := optionalID(r.Program, "programa", id.ParseProgramID)
	if err != nil {
		return err
	}
	if (proc == nil) == (prog == nil) {
		return dErrors.Validation("debe especificar un trámite o un programa", map[string]string{
			"tramite":  "indique exactamente uno",
			"programa": "indique exactamente uno",
		})
	}
	r.input = models.Submission{
		ProcedureID: proc,
		ProgramID:   prog,
		Description: strings.TrimSpace(r.Description),
	}
	return nil
}

type StatusChangeRequest struct {
	Status  string  `json:"estatus"`
	Comment *string `json:"comentario"`
	// Legacy clients send the reviewer comment under this key.
	ReviewComment *string `json:"comentarios_revision"`

	input models.StatusChange
}

func (r *StatusChangeRequest) Validate() error {
	status, err := id.ParseApplicationStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
	if err != nil {
		return err
	}
	r.input = models.StatusChange{Status: status}
	comment := r.Comment
	if comment == nil || (*comment == "" && r.ReviewComment != nil) {
		comment = r.ReviewComment
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		r.input.Comment = &trimmed
	}
	return nil
}

type AssignmentRequest struct {
	Application string `json:"solicitud"`
	Official    string `json:"funcionario"`
	Notes       string `json:"notas"`

	input models.AssignmentInput
}

func (r *AssignmentRequest) Validate() error {
	appID, err := id.ParseApplicationID(strings.TrimSpace(r.Application))
	if err != nil {
		return dErrors.Field("solicitud", "identificador inválido")
	}
	officialID, err := id.ParseOfficialID(strings.TrimSpace(r.Official))
	if err != nil {
		return dErrors.Field("funcionario", "identificador inválido")
	}
	r.input = models.AssignmentInput{ApplicationID: appID, OfficialID: officialID, Notes: strings.TrimSpace(r.Notes)}
	return nil
}

// parseMultipart bounds and parses a multipart body.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid multipart body")
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formValue(r *http.Request, key string) *string {
	if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
		return &vs[0]
	}
	return nil
}

// openUpload turns a multipart file into an Upload. The caller closes the
// returned file once the upload has been consumed.
func openUpload(reqID id.RequirementID, fh *multipart.FileHeader) (models.Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return models.Upload{}, nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file")
	}
	head := make([]byte, uploads.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		f.Close()
		return models.Upload{}, nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable file")
	}
	head = head[:n]
	return models.Upload{
		RequirementID: reqID,
		Name:          fh.Filename,
		Size:          fh.Size,
		Head:          head,
		Body:          io.MultiReader(bytes.NewReader(head), f),
	}, f, nil
}

// submissionFiles collects the requirement files of a creation form. Parts
// whose suffix is not a requirement id are ignored; parts that cannot be read
// are logged and skipped so the application is still created.
func submissionFiles(ctx context.Context, logger *slog.Logger, form *multipart.Form) ([]models.Upload, []io.Closer) {
	var (
		out     []models.Upload
		closers []io.Closer
	)
	for key, headers := range form.File {
		reqID, ok := requirementFromField(key)
		if !ok || len(headers) == 0 {
			continue
		}
		u, c, err := openUpload(reqID, headers[0])
		if err != nil {
			logger.WarnContext(ctx, "skipping unreadable submission file",
				"request_id", requestcontext.RequestID(ctx),
				"field", key,
				"filename", headers[0].Filename,
				"error", err,
			)
			continue
		}
		out = append(out, u)
		closers = append(closers, c)
	}
	return out, closers
}

func requirementFromField(key string) (id.RequirementID, bool) {
	for _, prefix := range documentFieldPrefixes {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			reqID, err := id.ParseRequirementID(rest)
			return reqID, err == nil
		}
	}
	return id.RequirementID{}, false
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// parseStatuses reads `estatus`, which may repeat or hold a comma separated
// list.
func parseStatuses(values []string) ([]id.ApplicationStatus, error) {
	var out []id.ApplicationStatus
	for _, v := range values {
		for _, raw := range strings.Split(v, ",") {
			raw = strings.ToUpper(strings.TrimSpace(raw))
			if raw == "" {
				continue
			}
			st, err := id.ParseApplicationStatus(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
	}
	return out, nil
}

// parseTrendPeriod accepts "7", "30", "90" and the "7days" style. An empty
// value leaves the choice to the service.
func parseTrendPeriod(raw string) (int, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "days")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, dErrors.Field("period", "el periodo debe ser 7, 30 o 90 días")
	}
	return n, nil
}
