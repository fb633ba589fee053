package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"portal/internal/catalog/models"
	"portal/internal/platform/database"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

// PostgresStore persists the catalog tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func departmentArray(ids []id.DepartmentID) any {
	out := make([]string, len(ids))
	for i, d := range ids {
		out[i] = d.String()
	}
	return pq.Array(out)
}

// where accumulates positional predicates.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) addRaw(clause string) {
	w.clauses = append(w.clauses, clause)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("scan %s: %w", what, err)
}

func checkAffected(res sql.Result, what string) error {
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", what, sentinel.ErrNotFound)
	}
	return nil
}

func deleteErr(err error, what string) error {
	if database.ForeignKeyViolation(err) {
		return fmt.Errorf("%s is referenced: %w", what, sentinel.ErrConflict)
	}
	return fmt.Errorf("delete %s: %w", what, err)
}

// Departments

const departmentColumns = `id, name, acronym, type, representative_id, created_at`

func (s *PostgresStore) CreateDepartment(ctx context.Context, d *models.Department) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO departments (`+departmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(d.ID), d.Name, d.Acronym, string(d.Type), nullOfficial(d.RepresentativeID), d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDepartment(ctx context.Context, d *models.Department) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE departments SET name = $2, acronym = $3, type = $4, representative_id = $5 WHERE id = $1`,
		uuid.UUID(d.ID), d.Name, d.Acronym, string(d.Type), nullOfficial(d.RepresentativeID))
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return checkAffected(res, "department "+d.ID.String())
}

func (s *PostgresStore) FindDepartment(ctx context.Context, deptID id.DepartmentID) (*models.Department, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+departmentColumns+` FROM departments WHERE id = $1`, uuid.UUID(deptID))
	return scanDepartment(row)
}

func (s *PostgresStore) ListDepartments(ctx context.Context, ids []id.DepartmentID) ([]*models.Department, error) {
	var w where
	if ids != nil {
		w.add("id = ANY(?::uuid[])", departmentArray(ids))
	}
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+departmentColumns+` FROM departments`+w.String()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var out []*models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountDepartments(ctx context.Context) (int, error) {
	var n int
	if err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM departments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return n, nil
}

func scanDepartment(row scanner) (*models.Department, error) {
	var (
		d      models.Department
		deptID uuid.UUID
		kind   string
		repID  uuid.NullUUID
	)
	if err := row.Scan(&deptID, &d.Name, &d.Acronym, &kind, &repID, &d.CreatedAt); err != nil {
		return nil, notFoundOr(err, "department")
	}
	d.ID = id.DepartmentID(deptID)
	d.Type = models.DepartmentType(kind)
	if repID.Valid {
		rep := id.OfficialID(repID.UUID)
		d.RepresentativeID = &rep
	}
	return &d, nil
}

func nullOfficial(o *id.OfficialID) uuid.NullUUID {
	if o == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*o), Valid: true}
}

// Officials

const officialColumns = `id, user_id, department_id, full_name, email, phone, position, sex, created_at`

func (s *PostgresStore) CreateOfficial(ctx context.Context, o *models.Official) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO officials (`+officialColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(o.ID), uuid.UUID(o.UserID), uuid.UUID(o.DepartmentID), o.FullName, o.Email, o.Phone, o.Position, o.Sex, o.CreatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return fmt.Errorf("official for user %s: %w", o.UserID, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert official: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindOfficial(ctx context.Context, officialID id.OfficialID) (*models.Official, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+officialColumns+` FROM officials WHERE id = $1`, uuid.UUID(officialID))
	return scanOfficial(row)
}

func (s *PostgresStore) FindOfficialByUser(ctx context.Context, userID id.UserID) (*models.Official, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+officialColumns+` FROM officials WHERE user_id = $1`, uuid.UUID(userID))
	return scanOfficial(row)
}

func (s *PostgresStore) ListOfficials(ctx context.Context, filter models.OfficialFilter) ([]*models.Official, error) {
	var w where
	if filter.DepartmentIDs != nil {
		w.add("department_id = ANY(?::uuid[])", departmentArray(filter.DepartmentIDs))
	}
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+officialColumns+` FROM officials`+w.String()+` ORDER BY full_name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list officials: %w", err)
	}
	defer rows.Close()
	var out []*models.Official
	for rows.Next() {
		o, err := scanOfficial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOfficial(row scanner) (*models.Official, error) {
	var (
		o                     models.Official
		officialID, uid, dept uuid.UUID
	)
	if err := row.Scan(&officialID, &uid, &dept, &o.FullName, &o.Email, &o.Phone, &o.Position, &o.Sex, &o.CreatedAt); err != nil {
		return nil, notFoundOr(err, "official")
	}
	o.ID = id.OfficialID(officialID)
	o.UserID = id.UserID(uid)
	o.DepartmentID = id.DepartmentID(dept)
	return &o, nil
}

// Procedures

const procedureColumns = `id, department_id, name, type, description, featured, active, created_at, updated_at`

func (s *PostgresStore) CreateProcedure(ctx context.Context, p *models.Procedure) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO procedures (`+procedureColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(p.ID), uuid.UUID(p.DepartmentID), p.Name, string(p.Type), p.Description, p.Featured, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert procedure: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProcedure(ctx context.Context, p *models.Procedure) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE procedures
		SET department_id = $2, name = $3, type = $4, description = $5, featured = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(p.ID), uuid.UUID(p.DepartmentID), p.Name, string(p.Type), p.Description, p.Featured, p.Active, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update procedure: %w", err)
	}
	return checkAffected(res, "procedure "+p.ID.String())
}

func (s *PostgresStore) DeleteProcedure(ctx context.Context, procID id.ProcedureID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM procedures WHERE id = $1`, uuid.UUID(procID))
	if err != nil {
		return deleteErr(err, "procedure "+procID.String())
	}
	return checkAffected(res, "procedure "+procID.String())
}

func (s *PostgresStore) FindProcedure(ctx context.Context, procID id.ProcedureID) (*models.Procedure, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+procedureColumns+` FROM procedures WHERE id = $1`, uuid.UUID(procID))
	return scanProcedure(row)
}

func offeringWhere(filter models.OfferingFilter) *where {
	w := &where{}
	if filter.DepartmentIDs != nil {
		w.add("department_id = ANY(?::uuid[])", departmentArray(filter.DepartmentIDs))
	}
	if filter.ActiveOnly {
		w.addRaw("active")
	}
	if filter.Featured != nil {
		w.add("featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		w.add("name ILIKE ?", "%"+filter.Search+"%")
	}
	return w
}

func (s *PostgresStore) ListProcedures(ctx context.Context, filter models.OfferingFilter) ([]*models.Procedure, error) {
	w := offeringWhere(filter)
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+procedureColumns+` FROM procedures`+w.String()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list procedures: %w", err)
	}
	defer rows.Close()
	var out []*models.Procedure
	for rows.Next() {
		p, err := scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ProcedureIDsByDepartment(ctx context.Context, deptID id.DepartmentID) ([]id.ProcedureID, error) {
	ids, err := s.idsByDepartment(ctx, `SELECT id FROM procedures WHERE department_id = $1`, deptID)
	if err != nil {
		return nil, err
	}
	out := make([]id.ProcedureID, len(ids))
	for i, u := range ids {
		out[i] = id.ProcedureID(u)
	}
	return out, nil
}

func scanProcedure(row scanner) (*models.Procedure, error) {
	var (
		p            models.Procedure
		procID, dept uuid.UUID
		kind         string
	)
	if err := row.Scan(&procID, &dept, &p.Name, &kind, &p.Description, &p.Featured, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "procedure")
	}
	p.ID = id.ProcedureID(procID)
	p.DepartmentID = id.DepartmentID(dept)
	p.Type = models.ProcedureType(kind)
	return &p, nil
}

// Programs

const programColumns = `id, department_id, name, description, category, featured, active, created_at, updated_at`

func (s *PostgresStore) CreateProgram(ctx context.Context, p *models.Program) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO programs (`+programColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(p.ID), uuid.UUID(p.DepartmentID), p.Name, p.Description, p.Category, p.Featured, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert program: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProgram(ctx context.Context, p *models.Program) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE programs
		SET department_id = $2, name = $3, description = $4, category = $5, featured = $6, active = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(p.ID), uuid.UUID(p.DepartmentID), p.Name, p.Description, p.Category, p.Featured, p.Active, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return checkAffected(res, "program "+p.ID.String())
}

func (s *PostgresStore) DeleteProgram(ctx context.Context, progID id.ProgramID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM programs WHERE id = $1`, uuid.UUID(progID))
	if err != nil {
		return deleteErr(err, "program "+progID.String())
	}
	return checkAffected(res, "program "+progID.String())
}

func (s *PostgresStore) FindProgram(ctx context.Context, progID id.ProgramID) (*models.Program, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+programColumns+` FROM programs WHERE id = $1`, uuid.UUID(progID))
	return scanProgram(row)
}

func (s *PostgresStore) ListPrograms(ctx context.Context, filter models.OfferingFilter) ([]*models.Program, error) {
	w := offeringWhere(filter)
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+programColumns+` FROM programs`+w.String()+` ORDER BY name`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()
	var out []*models.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ProgramIDsByDepartment(ctx context.Context, deptID id.DepartmentID) ([]id.ProgramID, error) {
	ids, err := s.idsByDepartment(ctx, `SELECT id FROM programs WHERE department_id = $1`, deptID)
	if err != nil {
		return nil, err
	}
	out := make([]id.ProgramID, len(ids))
	for i, u := range ids {
		out[i] = id.ProgramID(u)
	}
	return out, nil
}

func scanProgram(row scanner) (*models.Program, error) {
	var (
		p            models.Program
		progID, dept uuid.UUID
	)
	if err := row.Scan(&progID, &dept, &p.Name, &p.Description, &p.Category, &p.Featured, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "program")
	}
	p.ID = id.ProgramID(progID)
	p.DepartmentID = id.DepartmentID(dept)
	return &p, nil
}

func (s *PostgresStore) idsByDepartment(ctx context.Context, query string, deptID id.DepartmentID) ([]uuid.UUID, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, uuid.UUID(deptID))
	if err != nil {
		return nil, fmt.Errorf("list department offerings: %w", err)
	}
	defer rows.Close()
	var out []uuid.UUID
	for rows.Next() {
		var u uuid.UUID
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan offering id: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Requirements

const requirementColumns = `r.id, r.procedure_id, r.program_id, r.name, r.description, r.mandatory, r.document_required, r.created_at`

func (s *PostgresStore) CreateRequirement(ctx context.Context, r *models.Requirement) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO requirements (id, procedure_id, program_id, name, description, mandatory, document_required, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(r.ID), nullProcedure(r.ProcedureID), nullProgram(r.ProgramID), r.Name, r.Description, r.Mandatory, r.DocumentRequired, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateRequirement(ctx context.Context, r *models.Requirement) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE requirements
		SET procedure_id = $2, program_id = $3, name = $4, description = $5, mandatory = $6, document_required = $7
		WHERE id = $1`,
		uuid.UUID(r.ID), nullProcedure(r.ProcedureID), nullProgram(r.ProgramID), r.Name, r.Description, r.Mandatory, r.DocumentRequired)
	if err != nil {
		return fmt.Errorf("update requirement: %w", err)
	}
	return checkAffected(res, "requirement "+r.ID.String())
}

func (s *PostgresStore) DeleteRequirement(ctx context.Context, reqID id.RequirementID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM requirements WHERE id = $1`, uuid.UUID(reqID))
	if err != nil {
		return deleteErr(err, "requirement "+reqID.String())
	}
	return checkAffected(res, "requirement "+reqID.String())
}

func (s *PostgresStore) FindRequirement(ctx context.Context, reqID id.RequirementID) (*models.Requirement, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+requirementColumns+` FROM requirements r WHERE r.id = $1`, uuid.UUID(reqID))
	return scanRequirement(row)
}

// ListRequirements joins the owning offering so department and active
// filters apply to the parent.
func (s *PostgresStore) ListRequirements(ctx context.Context, filter models.RequirementFilter) ([]models.Requirement, error) {
	var w where
	if filter.ProcedureID != nil {
		w.add("r.procedure_id = ?", uuid.UUID(*filter.ProcedureID))
	}
	if filter.ProgramID != nil {
		w.add("r.program_id = ?", uuid.UUID(*filter.ProgramID))
	}
	if filter.DepartmentIDs != nil {
		w.add("COALESCE(p.department_id, g.department_id) = ANY(?::uuid[])", departmentArray(filter.DepartmentIDs))
	}
	if filter.ActiveOnly {
		w.addRaw("COALESCE(p.active, g.active)")
	}
	query := `SELECT ` + requirementColumns + `
		FROM requirements r
		LEFT JOIN procedures p ON p.id = r.procedure_id
		LEFT JOIN programs g ON g.id = r.program_id` + w.String() + `
		ORDER BY r.document_required DESC, r.mandatory DESC, r.name`

	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()
	var out []models.Requirement
	for rows.Next() {
		r, err := scanRequirement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanRequirement(row scanner) (*models.Requirement, error) {
	var (
		r          models.Requirement
		reqID      uuid.UUID
		proc, prog uuid.NullUUID
	)
	if err := row.Scan(&reqID, &proc, &prog, &r.Name, &r.Description, &r.Mandatory, &r.DocumentRequired, &r.CreatedAt); err != nil {
		return nil, notFoundOr(err, "requirement")
	}
	r.ID = id.RequirementID(reqID)
	if proc.Valid {
		p := id.ProcedureID(proc.UUID)
		r.ProcedureID = &p
	}
	if prog.Valid {
		g := id.ProgramID(prog.UUID)
		r.ProgramID = &g
	}
	return &r, nil
}

func nullProcedure(p *id.ProcedureID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*p), Valid: true}
}

func nullProgram(p *id.ProgramID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*p), Valid: true}
}

// Localities

const localityColumns = `id, postal_code, neighborhood, municipality, state, type`

func (s *PostgresStore) FindLocality(ctx context.Context, locID id.LocalityID) (*models.Locality, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+localityColumns+` FROM localities WHERE id = $1`, uuid.UUID(locID))
	return scanLocality(row)
}

func (s *PostgresStore) ListLocalities(ctx context.Context, postalCode string) ([]*models.Locality, error) {
	var w where
	if postalCode != "" {
		w.add("postal_code = ?", postalCode)
	}
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+localityColumns+` FROM localities`+w.String()+` ORDER BY postal_code, neighborhood`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list localities: %w", err)
	}
	defer rows.Close()
	var out []*models.Locality
	for rows.Next() {
		l, err := scanLocality(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLocality(row scanner) (*models.Locality, error) {
	var (
		l     models.Locality
		locID uuid.UUID
	)
	if err := row.Scan(&locID, &l.PostalCode, &l.Neighborhood, &l.Municipality, &l.State, &l.Type); err != nil {
		return nil, notFoundOr(err, "locality")
	}
	l.ID = id.LocalityID(locID)
	return &l, nil
}
