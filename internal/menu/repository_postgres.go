package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Remedy92/Culi-sub000/internal/extraction"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uploadColumns = `
	id::text, restaurant_id, object_key, image_url, original_filename,
	content_type, status, failure_reason, confidence, attempts,
	created_at, updated_at
`

func scanUpload(row pgx.Row) (*MenuUpload, error) {
	var u MenuUpload
	err := row.Scan(
		&u.ID, &u.RestaurantID, &u.ObjectKey, &u.ImageURL, &u.Filename,
		&u.ContentType, &u.Status, &u.FailureReason, &u.Confidence, &u.Attempts,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// GET MENU STATUS
// --------------------------------------------------
func (r *PostgresRepository) GetMenuStatus(
	ctx context.Context,
	restaurantID string,
) (*MenuStatus, error) {

	var s MenuStatus
	err := r.db.QueryRow(ctx, `
		SELECT id::text, status, failure_reason, confidence
		FROM menu_uploads
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&s.UploadID, &s.Status, &s.Reason, &s.Confidence)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepository) GetUpload(ctx context.Context, uploadID string) (*MenuUpload, error) {
	if _, err := uuid.Parse(uploadID); err != nil {
		return nil, ErrNotFound
	}
	return scanUpload(r.db.QueryRow(ctx, `
		SELECT `+uploadColumns+`
		FROM menu_uploads
		WHERE id = $1
	`, uploadID))
}

// --------------------------------------------------
// UPSERT MENU UPLOAD (ONE MENU PER RESTAURANT)
// --------------------------------------------------
func (r *PostgresRepository) UpsertUpload(ctx context.Context, u NewUpload) (*MenuUpload, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status
		FROM menu_uploads
		WHERE restaurant_id = $1
		FOR UPDATE
	`, u.RestaurantID).Scan(&status)

	var row pgx.Row
	switch {
	case err == nil:
		if locked(status) {
			return nil, ErrMenuLocked
		}
		// Replace existing (re-upload allowed until extracted)
		row = tx.QueryRow(ctx, `
			UPDATE menu_uploads
			SET object_key = $1,
			    image_url = $2,
			    original_filename = $3,
			    content_type = $4,
			    status = 'MENU_UPLOADED',
			    extraction = NULL,
			    confidence = NULL,
			    failure_reason = NULL,
			    updated_at = now()
			WHERE restaurant_id = $5
			RETURNING `+uploadColumns,
			u.ObjectKey, u.ImageURL, u.Filename, u.ContentType, u.RestaurantID)

	case errors.Is(err, pgx.ErrNoRows):
		row = tx.QueryRow(ctx, `
			INSERT INTO menu_uploads (
				id,
				restaurant_id,
				object_key,
				image_url,
				original_filename,
				content_type,
				status,
				created_at,
				updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, 'MENU_UPLOADED', now(), now())
			RETURNING `+uploadColumns,
			u.ID, u.RestaurantID, u.ObjectKey, u.ImageURL, u.Filename, u.ContentType)

	default:
		return nil, err
	}

	out, err := scanUpload(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// RETRY FAILED MENU
// --------------------------------------------------
func (r *PostgresRepository) RetryFailed(ctx context.Context, uploadID string) error {
	if _, err := uuid.Parse(uploadID); err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_uploads
		SET status = 'MENU_UPLOADED',
		    failure_reason = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'FAILED'
	`, uploadID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetUpload(ctx, uploadID); err != nil {
			return err
		}
		return ErrNotRetryable
	}
	return nil
}

// --------------------------------------------------
// CLAIM (WORKER)
// --------------------------------------------------
func (r *PostgresRepository) ClaimNext(ctx context.Context) (*MenuUpload, error) {
	u, err := scanUpload(r.db.QueryRow(ctx, `
		UPDATE menu_uploads
		SET status = 'EXTRACTING',
		    attempts = attempts + 1,
		    updated_at = now()
		WHERE id = (
			SELECT id
			FROM menu_uploads
			WHERE status = 'MENU_UPLOADED'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+uploadColumns))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (r *PostgresRepository) Claim(ctx context.Context, uploadID string) (*MenuUpload, error) {
	if _, err := uuid.Parse(uploadID); err != nil {
		return nil, ErrNotFound
	}
	u, err := scanUpload(r.db.QueryRow(ctx, `
		UPDATE menu_uploads
		SET status = 'EXTRACTING',
		    attempts = attempts + 1,
		    failure_reason = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND status IN ('MENU_UPLOADED', 'FAILED')
		RETURNING `+uploadColumns, uploadID))
	if errors.Is(err, ErrNotFound) {
		if _, getErr := r.GetUpload(ctx, uploadID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrNotClaimable
	}
	return u, err
}

// --------------------------------------------------
// SAVE EXTRACTION (ATOMIC, SAFE)
// --------------------------------------------------
var itemColumns = []string{
	"id", "upload_id", "section_name", "position", "name", "description",
	"price", "confidence", "allergens", "dietary_tags",
	"is_part_of_bundle", "bundle_id", "choice_group",
}

func (r *PostgresRepository) SaveExtraction(
	ctx context.Context,
	uploadID string,
	doc *extraction.ExtractedMenu,
) error {

	uid, err := uuid.Parse(uploadID)
	if err != nil {
		return ErrNotFound
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE menu_uploads
		SET extraction = $1,
		    confidence = $2,
		    status = 'EXTRACTED',
		    failure_reason = NULL,
		    updated_at = now()
		WHERE id = $3
		  AND status = 'EXTRACTING'
	`, data, doc.Confidence, uploadID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotClaimable
	}

	if _, err := tx.Exec(ctx, `DELETE FROM extracted_menu_items WHERE upload_id = $1`, uploadID); err != nil {
		return err
	}

	rows := itemRows(pgtype.UUID{Bytes: [16]byte(uid), Valid: true}, doc)
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"extracted_menu_items"}, itemColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy items: %w", err)
	}

	return tx.Commit(ctx)
}

func itemRows(uploadID pgtype.UUID, doc *extraction.ExtractedMenu) [][]any {
	var rows [][]any
	pos := 0
	for _, s := range doc.Sections {
		for _, it := range s.Items {
			allergens := make([]string, len(it.Allergens))
			for i, a := range it.Allergens {
				allergens[i] = string(a)
			}
			dietary := make([]string, len(it.Dietary))
			for i, d := range it.Dietary {
				dietary[i] = string(d)
			}
			rows = append(rows, []any{
				it.ID, uploadID, s.Name, pos, it.Name, it.Description,
				it.Price, it.Confidence, allergens, dietary,
				it.IsPartOfBundle, nullable(it.BundleID), nullable(string(it.ChoiceGroup)),
			})
			pos++
		}
	}
	return rows
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// --------------------------------------------------
// MARK FAILED
// --------------------------------------------------
func (r *PostgresRepository) MarkFailed(
	ctx context.Context,
	uploadID string,
	reason string,
) error {
	cmd, err := r.db.Exec(ctx, `
		UPDATE menu_uploads
		SET status = 'FAILED',
		    failure_reason = $1,
		    updated_at = now()
		WHERE id = $2
	`, reason, uploadID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetExtraction(ctx context.Context, uploadID string) (*extraction.ExtractedMenu, error) {
	if _, err := uuid.Parse(uploadID); err != nil {
		return nil, ErrNotFound
	}

	var data []byte
	err := r.db.QueryRow(ctx, `
		SELECT extraction
		FROM menu_uploads
		WHERE id = $1
	`, uploadID).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoExtraction
	}

	var doc extraction.ExtractedMenu
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode extraction: %w", err)
	}
	return &doc, nil
}
