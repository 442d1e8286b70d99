package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/CesarValbuena2725/JobTrackr/internal/errors"
	"github.com/CesarValbuena2725/JobTrackr/internal/models"
)

const applicationColumns = `id, owner_id, company_name, job_title, status, job_url, salary_range, location, applied_date, notes, created_at, updated_at`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+`
		FROM applications WHERE owner_id = $1 ORDER BY applied_date DESC`, ownerID)
	if err != nil {
		return nil, errors.Remote("failed to list applications", err)
	}
	defer rows.Close()

	items := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, errors.Remote("failed to scan application", err)
		}
		items = append(items, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Remote("failed to list applications", err)
	}
	return items, nil
}

func (r *ApplicationRepository) Insert(ctx context.Context, app models.Application) (*models.Application, error) {
	app.ID = uuid.NewString()
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		app.ID, app.OwnerID, app.CompanyName, app.JobTitle, app.Status, app.JobURL,
		app.SalaryRange, app.Location, app.AppliedDate, app.Notes, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		return nil, errors.Remote("failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id string, d models.Draft) (*models.Application, error) {
	updatedAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE applications
		SET company_name = $1, job_title = $2, status = $3, job_url = $4,
			salary_range = $5, location = $6, applied_date = $7, notes = $8, updated_at = $9
		WHERE id = $10`,
		d.CompanyName, d.JobTitle, d.Status, d.JobURL,
		d.SalaryRange, d.Location, d.AppliedDate, d.Notes, updatedAt, id)
	if err != nil {
		return nil, errors.Remote("failed to update application", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, errors.NotFound("application not found", nil)
	}
	return r.getByID(ctx, id)
}

func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return errors.Remote("failed to delete application", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errors.NotFound("application not found", nil)
	}
	return nil
}

func (r *ApplicationRepository) getByID(ctx context.Context, id string) (*models.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("application not found", err)
		}
		return nil, errors.Remote("failed to load application", err)
	}
	return app, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	if err := row.Scan(&app.ID, &app.OwnerID, &app.CompanyName, &app.JobTitle, &app.Status,
		&app.JobURL, &app.SalaryRange, &app.Location, &app.AppliedDate, &app.Notes,
		&app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	return &app, nil
}
