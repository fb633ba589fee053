package service

import (
	"context"
	"time"

	"portal/internal/applications/models"
	"portal/internal/policy"
	id "portal/pkg/domain"
	pstrings "portal/pkg/platform/strings"
)

// UploadDocument attaches one file to an application the actor owns, or any
// application for administrators. The citizen and every official with an
// active assignment are notified.
func (s *Service) UploadDocument(ctx context.Context, actor policy.Actor, appID id.ApplicationID, f models.Upload) (*models.Document, error) {
	v, err := s.resolve(ctx, actor, policy.OpDocumentUpload)
	if err != nil {
		return nil, err
	}
	app, err := s.visible(ctx, v, appID)
	if err != nil {
		return nil, err
	}
	offering, err := s.offering(ctx, app)
	if err != nil {
		return nil, err
	}
	doc, err := s.attach(ctx, app, offering, f)
	if err != nil {
		return nil, err
	}

	ref, err := s.ref(ctx, app, offering)
	if err != nil {
		s.warn(ctx, "document notifications skipped", app, err)
		return doc, nil
	}
	active, _, err := s.activeOfficials(ctx, app.ID)
	if err != nil {
		s.warn(ctx, "document notifications skipped", app, err)
		return doc, nil
	}
	var officials []id.UserID
	for _, as := range active {
		o, err := s.catalog.GetOfficial(ctx, as.OfficialID)
		if err != nil {
			s.warn(ctx, "assigned official lookup failed", app, err)
			continue
		}
		officials = append(officials, o.UserID)
	}
	requirement, _ := offering.Requirement(f.RequirementID)
	s.notifier.NotifyDocumentAdded(ctx, ref, requirement.Name, pstrings.Unique(officials))
	return doc, nil
}

// Completeness reports, for a visible application, which requirements have
// a document and whether the document-backed set is covered exactly.
func (s *Service) Completeness(ctx context.Context, actor policy.Actor, appID id.ApplicationID) (models.Completeness, error) {
	v, err := s.resolve(ctx, actor, policy.OpApplicationRead)
	if err != nil {
		return models.Completeness{}, err
	}
	app, err := s.visible(ctx, v, appID)
	if err != nil {
		return models.Completeness{}, err
	}
	defer s.metrics.ObserveCompleteness(time.Now())
	offering, err := s.offering(ctx, app)
	if err != nil {
		return models.Completeness{}, err
	}
	docs, err := s.store.ListDocuments(ctx, appID)
	if err != nil {
		return models.Completeness{}, internal(err, "failed to list documents")
	}
	return models.CheckCompleteness(offering, docs), nil
}
