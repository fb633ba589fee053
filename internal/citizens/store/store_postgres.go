package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portal/internal/citizens/fieldcrypt"
	"portal/internal/citizens/models"
	"portal/internal/platform/database"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

const (
	curpHashConstraint  = "citizens_curp_hash_key"
	emailHashConstraint = "citizens_email_hash_key"
)

const citizenColumns = `id, user_id, first_name, paternal_surname, maternal_surname, sex,
	curp_enc, birth_date_enc, email_enc, phone_enc, street_enc, exterior_number_enc,
	interior_number, locality_id, created_at, updated_at`

// PostgresStore seals personal fields on write and opens them on read.
type PostgresStore struct {
	db     *sql.DB
	sealer *fieldcrypt.Sealer
}

func NewPostgres(db *sql.DB, sealer *fieldcrypt.Sealer) *PostgresStore {
	return &PostgresStore{db: db, sealer: sealer}
}

type scanner interface {
	Scan(dest ...any) error
}

// sealed holds the ciphertexts of one citizen row.
type sealed struct {
	curp, birthDate, email, phone, street, exterior []byte
}

func (s *PostgresStore) seal(c *models.Citizen) (*sealed, error) {
	plain := []string{
		c.CURP,
		c.BirthDate.Format(models.BirthDateLayout),
		c.Email,
		c.Phone,
		c.Street,
		c.ExteriorNumber,
	}
	out := make([][]byte, len(plain))
	for i, p := range plain {
		ct, err := s.sealer.Seal(p)
		if err != nil {
			return nil, fmt.Errorf("seal citizen: %w", err)
		}
		out[i] = ct
	}
	return &sealed{curp: out[0], birthDate: out[1], email: out[2], phone: out[3], street: out[4], exterior: out[5]}, nil
}

func duplicateErr(err error) error {
	constraint, ok := database.UniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case curpHashConstraint:
		return models.ErrDuplicateCURP
	case emailHashConstraint:
		return models.ErrDuplicateEmail
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Citizen) error {
	enc, err := s.seal(c)
	if err != nil {
		return err
	}
	_, err = tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO citizens (`+citizenColumns+`, curp_hash, email_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		uuid.UUID(c.ID), uuid.UUID(c.UserID), c.FirstName, c.PaternalSurname, c.MaternalSurname, string(c.Sex),
		enc.curp, enc.birthDate, enc.email, enc.phone, enc.street, enc.exterior,
		c.InteriorNumber, nullLocality(c.LocalityID), c.CreatedAt, c.UpdatedAt,
		s.sealer.HashCURP(c.CURP), s.sealer.HashEmail(c.Email))
	if dup := duplicateErr(err); dup != nil {
		return dup
	}
	if err != nil {
		return fmt.Errorf("insert citizen: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Citizen) error {
	enc, err := s.seal(c)
	if err != nil {
		return err
	}
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE citizens SET email_enc = $2, email_hash = $3, phone_enc = $4, street_enc = $5,
		exterior_number_enc = $6, interior_number = $7, locality_id = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(c.ID), enc.email, s.sealer.HashEmail(c.Email), enc.phone, enc.street,
		enc.exterior, c.InteriorNumber, nullLocality(c.LocalityID), c.UpdatedAt)
	if dup := duplicateErr(err); dup != nil {
		return dup
	}
	if err != nil {
		return fmt.Errorf("update citizen: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, citizenID id.CitizenID) (*models.Citizen, error) {
	return s.findOne(ctx, `id = $1`, uuid.UUID(citizenID))
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Citizen, error) {
	return s.findOne(ctx, `user_id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) FindByCURP(ctx context.Context, curp string) (*models.Citizen, error) {
	return s.findOne(ctx, `curp_hash = $1`, s.sealer.HashCURP(curp))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Citizen, error) {
	return s.findOne(ctx, `email_hash = $1`, s.sealer.HashEmail(email))
}

func (s *PostgresStore) findOne(ctx context.Context, predicate string, arg any) (*models.Citizen, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+citizenColumns+` FROM citizens WHERE `+predicate, arg)
	return s.scan(row)
}

// List matches Search against the CURP and email hashes, or as a fragment of
// the plaintext name columns.
func (s *PostgresStore) List(ctx context.Context, filter models.Filter) ([]*models.Citizen, error) {
	query := `SELECT ` + citizenColumns + ` FROM citizens`
	var args []any
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, s.sealer.HashCURP(search), s.sealer.HashEmail(search), "%"+search+"%")
		query += ` WHERE curp_hash = $1 OR email_hash = $2
		OR (first_name || ' ' || paternal_surname || ' ' || maternal_surname) ILIKE $3`
	}
	query += ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	defer rows.Close()
	var out []*models.Citizen
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM citizens`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count citizens: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) scan(row scanner) (*models.Citizen, error) {
	var (
		c                 models.Citizen
		citizenID, userID uuid.UUID
		sex               string
		enc               sealed
		locID             uuid.NullUUID
	)
	err := row.Scan(&citizenID, &userID, &c.FirstName, &c.PaternalSurname, &c.MaternalSurname, &sex,
		&enc.curp, &enc.birthDate, &enc.email, &enc.phone, &enc.street, &enc.exterior,
		&c.InteriorNumber, &locID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan citizen: %w", err)
	}
	c.ID = id.CitizenID(citizenID)
	c.UserID = id.UserID(userID)
	c.Sex = models.Sex(sex)
	if locID.Valid {
		loc := id.LocalityID(locID.UUID)
		c.LocalityID = &loc
	}

	var birth string
	for _, f := range []struct {
		ct  []byte
		dst *string
	}{
		{enc.curp, &c.CURP},
		{enc.birthDate, &birth},
		{enc.email, &c.Email},
		{enc.phone, &c.Phone},
		{enc.street, &c.Street},
		{enc.exterior, &c.ExteriorNumber},
	} {
		if *f.dst, err = s.sealer.Open(f.ct); err != nil {
			return nil, fmt.Errorf("open citizen %s: %w", c.ID, err)
		}
	}
	if c.BirthDate, err = time.Parse(models.BirthDateLayout, birth); err != nil {
		return nil, fmt.Errorf("citizen %s birth date: %w", c.ID, err)
	}
	return &c, nil
}

func nullLocality(l *id.LocalityID) uuid.NullUUID {
	if l == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*l), Valid: true}
}
