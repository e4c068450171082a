package repository

import (
	"context"
	"errors"
	"fmt"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TheaterRepository interface {
	Create(ctx context.Context, theater *entity.Theater) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	// FindByIDForUpdate locks the theater row until the surrounding
	// transaction ends. Scheduling in the theater is serialized on it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Theater, error)
	FindByName(ctx context.Context, name string) (*entity.Theater, error)
	FindAll(ctx context.Context, offset, limit int) ([]*entity.Theater, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, theater *entity.Theater) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type theaterRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTheaterRepository(db database.PgxIface, log *zap.Logger) TheaterRepository {
	return &theaterRepository{
		db:  db,
		log: log.With(zap.String("repository", "theater")),
	}
}

const theaterColumns = `id, name, capacity, created_at, updated_at`

func scanTheater(row pgx.Row) (*entity.Theater, error) {
	var t entity.Theater
	if err := row.Scan(&t.ID, &t.Name, &t.Capacity, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *theaterRepository) Create(ctx context.Context, theater *entity.Theater) error {
	query := `
		INSERT INTO theaters (id, name, capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Capacity,
		theater.CreatedAt,
		theater.UpdatedAt,
	)
	if err != nil {
		err = database.MapError(err)
		if errors.Is(err, database.ErrUniqueViolation) {
			r.log.Warn("Theater name taken", zap.String("name", theater.Name))
		} else {
			r.log.Error("Failed to create theater",
				zap.Error(err),
				zap.String("name", theater.Name),
			)
		}
		return fmt.Errorf("failed to create theater: %w", err)
	}

	return nil
}

func (r *theaterRepository) findOne(ctx context.Context, query string, arg any) (*entity.Theater, error) {
	theater, err := scanTheater(database.Conn(ctx, r.db).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find theater",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("failed to find theater: %w", database.MapError(err))
	}
	return theater, nil
}

func (r *theaterRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	return r.findOne(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE id = $1`, id)
}

func (r *theaterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Theater, error) {
	return r.findOne(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE id = $1 FOR UPDATE`, id)
}

func (r *theaterRepository) FindByName(ctx context.Context, name string) (*entity.Theater, error) {
	return r.findOne(ctx, `SELECT `+theaterColumns+` FROM theaters WHERE name = $1`, name)
}

func (r *theaterRepository) FindAll(ctx context.Context, offset, limit int) ([]*entity.Theater, error) {
	query := `SELECT ` + theaterColumns + ` FROM theaters ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all theaters", zap.Error(err))
		return nil, fmt.Errorf("failed to find theaters: %w", err)
	}
	defer rows.Close()

	theaters := make([]*entity.Theater, 0)
	for rows.Next() {
		theater, err := scanTheater(rows)
		if err != nil {
			r.log.Error("Failed to scan theater row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan theater: %w", err)
		}
		theaters = append(theaters, theater)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return theaters, nil
}

func (r *theaterRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM theaters`).Scan(&total); err != nil {
		r.log.Error("Failed to count theaters", zap.Error(err))
		return 0, fmt.Errorf("failed to count theaters: %w", err)
	}
	return total, nil
}

func (r *theaterRepository) Update(ctx context.Context, theater *entity.Theater) error {
	query := `UPDATE theaters SET name = $2, capacity = $3, updated_at = $4 WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query,
		theater.ID,
		theater.Name,
		theater.Capacity,
		theater.UpdatedAt,
	)
	if err != nil {
		err = database.MapError(err)
		if !errors.Is(err, database.ErrUniqueViolation) {
			r.log.Error("Failed to update theater",
				zap.Error(err),
				zap.String("theater_id", theater.ID.String()),
			)
		}
		return fmt.Errorf("failed to update theater: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update theater %s: %w", theater.ID, database.ErrStaleRow)
	}

	return nil
}

func (r *theaterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM theaters WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete theater",
			zap.Error(err),
			zap.String("theater_id", id.String()),
		)
		return fmt.Errorf("failed to delete theater: %w", database.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete theater %s: %w", id, database.ErrStaleRow)
	}

	return nil
}
