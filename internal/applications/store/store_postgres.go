package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"portal/internal/applications/models"
	"portal/internal/platform/database"
	id "portal/pkg/domain"
	"portal/pkg/platform/sentinel"
	"portal/pkg/platform/tx"
)

const applicationColumns = `a.id, a.folio, a.citizen_id, a.procedure_id, a.program_id, a.status,
	a.description, a.comments, a.created_at, a.updated_at`

// PostgresStore persists applications, history, documents and assignments.
type PostgresStore struct {
	db     *sql.DB
	runner tx.Runner
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, runner: tx.NewSQLRunner(db)}
}

type scanner interface {
	Scan(dest ...any) error
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("scan %s: %w", what, err)
}

func nullUUID[T ~[16]byte](v *T) uuid.NullUUID {
	if v == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*v), Valid: true}
}

func uuidArray[T ~[16]byte](ids []T) any {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = uuid.UUID(v).String()
	}
	return pq.Array(out)
}

// visibility renders vis as one predicate over alias a, numbering
// placeholders after the args already present.
func visibility(vis models.Visibility, args []any) (string, []any) {
	if vis.All {
		return "TRUE", args
	}
	var clauses []string
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(args))))
	}
	if vis.CitizenID != nil {
		add("a.citizen_id = ?", uuid.UUID(*vis.CitizenID))
	}
	if len(vis.ProcedureIDs) > 0 {
		add("a.procedure_id = ANY(?::uuid[])", uuidArray(vis.ProcedureIDs))
	}
	if len(vis.ProgramIDs) > 0 {
		add("a.program_id = ANY(?::uuid[])", uuidArray(vis.ProgramIDs))
	}
	if vis.AssignedTo != nil {
		add("EXISTS (SELECT 1 FROM assignments s WHERE s.application_id = a.id AND s.active AND s.official_id = ?)",
			uuid.UUID(*vis.AssignedTo))
	}
	if len(clauses) == 0 {
		return "FALSE", args
	}
	return "(" + strings.Join(clauses, " OR ") + ")", args
}

func (s *PostgresStore) NextFolio(ctx context.Context) (string, error) {
	var seq int64
	if err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `SELECT nextval('application_folio_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next folio: %w", err)
	}
	return models.Folio(seq), nil
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Application) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO applications (id, folio, citizen_id, procedure_id, program_id, status, description, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(a.ID), a.Folio, uuid.UUID(a.CitizenID), nullUUID(a.ProcedureID), nullUUID(a.ProgramID),
		string(a.Status), a.Description, a.Comments, a.CreatedAt, a.UpdatedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return fmt.Errorf("application %s: %w", a.Folio, sentinel.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, uuid.UUID(appID))
	return scanApplication(row)
}

// Execute locks the row with FOR UPDATE, runs validate and mutate, and writes
// the mutable columns back, all in one transaction.
func (s *PostgresStore) Execute(ctx context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	var out *models.Application
	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		exec := tx.ExecutorFrom(ctx, s.db)
		a, err := scanApplication(exec.QueryRowContext(ctx,
			`SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1 FOR UPDATE`, uuid.UUID(appID)))
		if err != nil {
			return err
		}
		if validate != nil {
			if err := validate(a); err != nil {
				return err
			}
		}
		mutate(a)
		if _, err := exec.ExecContext(ctx,
			`UPDATE applications SET status = $2, description = $3, comments = $4, updated_at = $5 WHERE id = $1`,
			uuid.UUID(a.ID), string(a.Status), a.Description, a.Comments, a.UpdatedAt); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) List(ctx context.Context, vis models.Visibility, filter models.Filter) ([]*models.Application, error) {
	pred, args := visibility(vis, nil)
	clauses := []string{pred}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, pq.Array(statuses))
		clauses = append(clauses, fmt.Sprintf("a.status = ANY($%d)", len(args)))
	}
	if folio := strings.TrimSpace(filter.Folio); folio != "" {
		args = append(args, "%"+folio+"%")
		clauses = append(clauses, fmt.Sprintf("a.folio ILIKE $%d", len(args)))
	}
	order := "a.created_at DESC"
	if filter.RecentlyUpdated {
		order = "a.updated_at DESC"
	}
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE ` + strings.Join(clauses, " AND ") +
		` ORDER BY ` + order + `, a.folio DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()
	var out []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountByStatus(ctx context.Context, vis models.Visibility) (models.StatusCounts, error) {
	pred, args := visibility(vis, nil)
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT a.status, COUNT(*) FROM applications a WHERE `+pred+` GROUP BY a.status`, args...)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}
	defer rows.Close()
	counts := models.NewStatusCounts()
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[id.ApplicationStatus(status)] = n
	}
	return counts, rows.Err()
}

func (s *PostgresStore) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications since: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountCreatedByDay(ctx context.Context, since time.Time) ([]models.DayCounts, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT (created_at AT TIME ZONE 'UTC')::date AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM applications
		WHERE created_at >= $1
		GROUP BY day
		ORDER BY day`,
		since, string(id.StatusApproved), string(id.StatusRejected))
	if err != nil {
		return nil, fmt.Errorf("count applications by day: %w", err)
	}
	defer rows.Close()
	var out []models.DayCounts
	for rows.Next() {
		var c models.DayCounts
		if err := rows.Scan(&c.Day, &c.Created, &c.Approved, &c.Rejected); err != nil {
			return nil, fmt.Errorf("scan day counts: %w", err)
		}
		c.Day = time.Date(c.Day.Year(), c.Day.Month(), c.Day.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) AverageResponseDays(ctx context.Context) (float64, error) {
	var days float64
	err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (h.resolved_at - a.created_at))) / 86400, 0)
		FROM applications a
		JOIN (
			SELECT application_id, MAX(created_at) AS resolved_at
			FROM application_history
			WHERE change_type = $1 AND status = ANY($2)
			GROUP BY application_id
		) h ON h.application_id = a.id`,
		string(models.ChangeStatus), pq.Array([]string{
			string(id.StatusApproved), string(id.StatusAccepted), string(id.StatusRejected),
		})).Scan(&days)
	if err != nil {
		return 0, fmt.Errorf("average response time: %w", err)
	}
	return days, nil
}

func scanApplication(row scanner) (*models.Application, error) {
	var (
		a                  models.Application
		appID, citizenID   uuid.UUID
		procedure, program uuid.NullUUID
		status             string
	)
	if err := row.Scan(&appID, &a.Folio, &citizenID, &procedure, &program, &status,
		&a.Description, &a.Comments, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, notFoundOr(err, "application")
	}
	a.ID = id.ApplicationID(appID)
	a.CitizenID = id.CitizenID(citizenID)
	a.Status = id.ApplicationStatus(status)
	if procedure.Valid {
		p := id.ProcedureID(procedure.UUID)
		a.ProcedureID = &p
	}
	if program.Valid {
		p := id.ProgramID(program.UUID)
		a.ProgramID = &p
	}
	return &a, nil
}

// History

func (s *PostgresStore) AppendHistory(ctx context.Context, e models.HistoryEntry) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO application_history (application_id, status, comments, changed_by, change_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(e.ApplicationID), string(e.Status), e.Comments, nullUUID(e.ChangedBy), string(e.ChangeType), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListHistory(ctx context.Context, appID id.ApplicationID) ([]models.HistoryEntry, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT status, comments, changed_by, change_type, created_at
		FROM application_history WHERE application_id = $1 ORDER BY created_at DESC, id DESC`, uuid.UUID(appID))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	var out []models.HistoryEntry
	for rows.Next() {
		var (
			e          models.HistoryEntry
			status     string
			changedBy  uuid.NullUUID
			changeType string
		)
		if err := rows.Scan(&status, &e.Comments, &changedBy, &changeType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.ApplicationID = appID
		e.Status = id.ApplicationStatus(status)
		e.ChangeType = models.ChangeType(changeType)
		if changedBy.Valid {
			u := id.UserID(changedBy.UUID)
			e.ChangedBy = &u
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Documents

func (s *PostgresStore) AddDocument(ctx context.Context, d *models.Document) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO documents (id, application_id, requirement_id, file_path, original_name, content_type, size_bytes, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(d.ID), uuid.UUID(d.ApplicationID), uuid.UUID(d.RequirementID), d.Path, d.OriginalName,
		d.ContentType, d.Size, d.UploadedAt)
	if _, dup := database.UniqueViolation(err); dup {
		return fmt.Errorf("document for requirement %s: %w", d.RequirementID, sentinel.ErrConflict)
	}
	if database.ForeignKeyViolation(err) {
		return fmt.Errorf("document parent: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, appID id.ApplicationID) ([]*models.Document, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT id, requirement_id, file_path, original_name, content_type, size_bytes, uploaded_at
		FROM documents WHERE application_id = $1 ORDER BY uploaded_at`, uuid.UUID(appID))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var out []*models.Document
	for rows.Next() {
		var (
			d            models.Document
			docID, reqID uuid.UUID
		)
		if err := rows.Scan(&docID, &reqID, &d.Path, &d.OriginalName, &d.ContentType, &d.Size, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.ID = id.DocumentID(docID)
		d.ApplicationID = appID
		d.RequirementID = id.RequirementID(reqID)
		out = append(out, &d)
	}
	return out, rows.Err()
}

// Assignments

const assignmentColumns = `id, application_id, official_id, department_id, active, automatic, assigned_by, notes, created_at`

func (s *PostgresStore) DeactivateAssignments(ctx context.Context, appID id.ApplicationID, deptID id.DepartmentID) (int, error) {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE assignments SET active = FALSE WHERE application_id = $1 AND department_id = $2 AND active`,
		uuid.UUID(appID), uuid.UUID(deptID))
	if err != nil {
		return 0, fmt.Errorf("deactivate assignments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate assignments: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) CreateAssignment(ctx context.Context, as *models.Assignment) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO assignments (`+assignmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(as.ID), uuid.UUID(as.ApplicationID), uuid.UUID(as.OfficialID), uuid.UUID(as.DepartmentID),
		as.Active, as.Automatic, nullUUID(as.AssignedBy), as.Notes, as.CreatedAt)
	if database.ForeignKeyViolation(err) {
		return fmt.Errorf("assignment parent: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAssignments(ctx context.Context, appID id.ApplicationID) ([]*models.Assignment, error) {
	return s.queryAssignments(ctx, `WHERE application_id = $1`, uuid.UUID(appID))
}

func (s *PostgresStore) ActiveAssignmentsFor(ctx context.Context, officialID id.OfficialID) ([]*models.Assignment, error) {
	return s.queryAssignments(ctx, `WHERE official_id = $1 AND active`, uuid.UUID(officialID))
}

func (s *PostgresStore) queryAssignments(ctx context.Context, where string, args ...any) ([]*models.Assignment, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()
	var out []*models.Assignment
	for rows.Next() {
		var (
			as                         models.Assignment
			asID, appID, offID, deptID uuid.UUID
			assignedBy                 uuid.NullUUID
		)
		if err := rows.Scan(&asID, &appID, &offID, &deptID, &as.Active, &as.Automatic, &assignedBy, &as.Notes, &as.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		as.ID = id.AssignmentID(asID)
		as.ApplicationID = id.ApplicationID(appID)
		as.OfficialID = id.OfficialID(offID)
		as.DepartmentID = id.DepartmentID(deptID)
		if assignedBy.Valid {
			u := id.UserID(assignedBy.UUID)
			as.AssignedBy = &u
		}
		out = append(out, &as)
	}
	return out, rows.Err()
}
