package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"

	"portal/internal/applications/models"
	catalogmodels "portal/internal/catalog/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
	"portal/pkg/requestcontext"
)

const (
	msgForeignRequirement = "el requisito no pertenece al trámite o programa de la solicitud"
	msgDuplicateDocument  = "ya existe un documento para este requisito"
)

// Create submits a citizen's application. The application and its creation
// history entry are written in one unit of work; each uploaded file is then
// attached on its own and a failing file is logged and skipped.
func (s *Service) Create(ctx context.Context, actor policy.Actor, in models.Submission) (*models.Application, error) {
	if _, err := policy.Authorize(actor, policy.OpApplicationCreate); err != nil {
		return nil, err
	}
	citizen, err := s.citizens.ByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	offering, err := s.catalog.ResolveOffering(ctx, in.ProcedureID, in.ProgramID)
	if err != nil {
		return nil, err
	}
	if !offering.Active {
		field := "tramite"
		if offering.Kind == catalogmodels.OfferingProgram {
			field = "programa"
		}
		return nil, dErrors.Field(field, "no está disponible para nuevas solicitudes")
	}

	now := requestcontext.Now(ctx)
	app := &models.Application{
		ID:          id.ApplicationID(uuid.New()),
		CitizenID:   citizen.ID,
		ProcedureID: offering.ProcedureID,
		ProgramID:   offering.ProgramID,
		Status:      id.StatusPending,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		folio, err := s.store.NextFolio(ctx)
		if err != nil {
			return err
		}
		app.Folio = folio
		if err := s.store.Create(ctx, app); err != nil {
			return err
		}
		by := actor.UserID
		return s.store.AppendHistory(ctx, models.HistoryEntry{
			ApplicationID: app.ID,
			Status:        app.Status,
			ChangedBy:     &by,
			ChangeType:    models.ChangeCreated,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, internal(err, "failed to create application")
	}
	s.metrics.IncrementCreated(string(offering.Kind))
	s.logger.InfoContext(ctx, "application created",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"folio", app.Folio,
	)

	for _, f := range in.Files {
		if _, err := s.attach(ctx, app, offering, f); err != nil {
			s.metrics.IncrementDocumentFailure(stageOf(err))
			s.logger.WarnContext(ctx, "document skipped",
				"request_id", requestcontext.RequestID(ctx),
				"application_id", app.ID,
				"requirement_id", f.RequirementID,
				"error", err,
			)
		}
	}

	ref, err := s.ref(ctx, app, offering)
	if err != nil {
		s.warn(ctx, "application notifications skipped", app, err)
		return app, nil
	}
	if _, err := s.notifier.NotifyStatusChange(ctx, ref, "", id.StatusPending, ""); err != nil {
		s.warn(ctx, "citizen notification failed", app, err)
	}
	deptName := ""
	if d, err := s.catalog.GetDepartment(ctx, offering.DepartmentID); err == nil {
		deptName = d.Name
	}
	if _, err := s.notifier.NotifyDepartmentNewApplication(ctx, ref, deptName); err != nil {
		s.warn(ctx, "department notification failed", app, err)
	}
	return app, nil
}

// stageOf labels a document failure for metrics.
func stageOf(err error) string {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation:
		return "validation"
	case dErrors.CodeInternal:
		return "storage"
	}
	return "other"
}

// attach validates one upload against the application's own requirements,
// writes the file and records the Document. The file is removed again when
// the record cannot be written.
func (s *Service) attach(ctx context.Context, app *models.Application, offering *catalogmodels.Offering, f models.Upload) (*models.Document, error) {
	if _, ok := offering.Requirement(f.RequirementID); !ok {
		return nil, dErrors.Field("requisito", msgForeignRequirement)
	}
	contentType, err := s.uploads.Validate(f.Name, f.Size, f.Head)
	if err != nil {
		return nil, err
	}
	body := f.Body
	if body == nil {
		body = bytes.NewReader(f.Head)
	}
	rel, err := s.files.Save(ctx, f.Name, body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}
	doc := &models.Document{
		ID:            id.DocumentID(uuid.New()),
		ApplicationID: app.ID,
		RequirementID: f.RequirementID,
		Path:          rel,
		OriginalName:  f.Name,
		ContentType:   contentType,
		Size:          f.Size,
		UploadedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.AddDocument(ctx, doc); err != nil {
		if rmErr := s.files.Remove(ctx, rel); rmErr != nil {
			s.logger.WarnContext(ctx, "orphan document file",
				"request_id", requestcontext.RequestID(ctx),
				"path", rel,
				"error", rmErr,
			)
		}
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Field("requisito", msgDuplicateDocument)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record document")
	}
	return doc, nil
}
