package service

import (
	"context"
	"errors"
	"strings"

	"portal/internal/catalog/models"
	id "portal/pkg/domain"
	dErrors "portal/pkg/domain-errors"
	"portal/pkg/platform/sentinel"
)

const (
	ServedMunicipality = "Macuspana"
	ServedState        = "Tabasco"
)

// ListLocalities is public reference data; postalCode narrows the list when
// non-empty.
func (s *Service) ListLocalities(ctx context.Context, postalCode string) ([]*models.Locality, error) {
	locs, err := s.store.ListLocalities(ctx, strings.TrimSpace(postalCode))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list localities")
	}
	return locs, nil
}

func (s *Service) GetLocality(ctx context.Context, locID id.LocalityID) (*models.Locality, error) {
	l, err := s.store.FindLocality(ctx, locID)
	if err != nil {
		return nil, notFound(err, "localidad no encontrada", "failed to load locality")
	}
	return l, nil
}

// ResidentLocality checks that a citizen address points at a locality of the
// served municipality.
func (s *Service) ResidentLocality(ctx context.Context, locID id.LocalityID) (*models.Locality, error) {
	l, err := s.store.FindLocality(ctx, locID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Field("localidad", "la localidad no existe")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load locality")
	}
	if !strings.EqualFold(l.Municipality, ServedMunicipality) || !strings.EqualFold(l.State, ServedState) {
		return nil, dErrors.Field("localidad", "la localidad debe pertenecer a Macuspana, Tabasco")
	}
	return l, nil
}
