package store

import (
	"github.com/google/uuid"

	"portal/internal/catalog/models"
	id "portal/pkg/domain"
)

// MacuspanaLocalities mirrors the rows inserted by the localities migration
// so the in-memory store accepts the same addresses.
func MacuspanaLocalities() []*models.Locality {
	rows := []struct {
		id, postal, neighborhood, kind string
	}{
		{"6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0001", "86700", "Macuspana Centro", "Colonia"},
		{"6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0002", "86706", "Pueblo Nuevo", "Colonia"},
		{"6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0003", "86710", "Benito Juárez", "Colonia"},
		{"6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0004", "86720", "Belén", "Ranchería"},
		{"6b1f6c1e-7d3a-4f43-9a55-2f0c1b6a0005", "86730", "Aquiles Serdán", "Villa"},
	}
	out := make([]*models.Locality, 0, len(rows))
	for _, r := range rows {
		out = append(out, &models.Locality{
			ID:           id.LocalityID(uuid.MustParse(r.id)),
			PostalCode:   r.postal,
			Neighborhood: r.neighborhood,
			Municipality: "Macuspana",
			State:        "Tabasco",
			Type:         r.kind,
		})
	}
	return out
}
