package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	// FindByIDForUpdate locks the showtime row until the surrounding
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindByMovie(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error)
	FindByTheater(ctx context.Context, theaterID uuid.UUID) ([]*entity.Showtime, error)
	// FindOverlapping returns the showtimes of theaterID sharing any instant
	// with [start, end], boundaries included. excludeID (uuid.Nil for none)
	// is left out of the result.
	FindOverlapping(ctx context.Context, theaterID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]*entity.Showtime, error)
	CountByTheater(ctx context.Context, theaterID uuid.UUID) (int64, error)
	CountByMovie(ctx context.Context, movieID uuid.UUID) (int64, error)
	// MaxSeatsInTheater is the largest MaxSeats of any showtime in the
	// theater, 0 when it has none.
	MaxSeatsInTheater(ctx context.Context, theaterID uuid.UUID) (int, error)
	// Update writes showtime if its version is unchanged and bumps the
	// version. ErrStaleRow otherwise.
	Update(ctx context.Context, showtime *entity.Showtime) error
	// DecrementAvailableSeats takes n seats off the counter. ErrStaleRow
	// when fewer than n are left.
	DecrementAvailableSeats(ctx context.Context, id uuid.UUID, n int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `id, movie_id, theater_id, start_time, end_time, max_seats, available_seats, version, created_at, updated_at`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var s entity.Showtime
	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.TheaterID,
		&s.StartTime,
		&s.EndTime,
		&s.MaxSeats,
		&s.AvailableSeats,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		INSERT INTO showtimes (id, movie_id, theater_id, start_time, end_time,
		                       max_seats, available_seats, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.MaxSeats,
		showtime.AvailableSeats,
		showtime.Version,
		showtime.CreatedAt,
		showtime.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("theater_id", showtime.TheaterID.String()),
			zap.Time("start_time", showtime.StartTime),
		)
		return fmt.Errorf("failed to create showtime: %w", database.MapError(err))
	}

	return nil
}

func (r *showtimeRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Showtime, error) {
	showtime, err := scanShowtime(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err = database.MapError(err)
		if !errors.Is(err, database.ErrLockTimeout) {
			r.log.Error("Failed to find showtime",
				zap.Error(err),
				zap.String("showtime_id", id.String()),
			)
		}
		return nil, fmt.Errorf("failed to find showtime: %w", err)
	}
	return showtime, nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	return r.findOne(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = $1`, id)
}

func (r *showtimeRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	return r.findOne(ctx, `SELECT `+showtimeColumns+` FROM showtimes WHERE id = $1 FOR UPDATE`, id)
}

func (r *showtimeRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Showtime, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query showtimes", zap.Error(err))
		return nil, fmt.Errorf("failed to find showtimes: %w", database.MapError(err))
	}
	defer rows.Close()

	showtimes := make([]*entity.Showtime, 0)
	for rows.Next() {
		showtime, err := scanShowtime(rows)
		if err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan showtime: %w", err)
		}
		showtimes = append(showtimes, showtime)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) FindByMovie(ctx context.Context, movieID uuid.UUID) ([]*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE movie_id = $1 ORDER BY start_time`
	return r.findMany(ctx, query, movieID)
}

func (r *showtimeRepository) FindByTheater(ctx context.Context, theaterID uuid.UUID) ([]*entity.Showtime, error) {
	query := `SELECT ` + showtimeColumns + ` FROM showtimes WHERE theater_id = $1 ORDER BY start_time`
	return r.findMany(ctx, query, theaterID)
}

func (r *showtimeRepository) FindOverlapping(ctx context.Context, theaterID uuid.UUID, start, end time.Time, excludeID uuid.UUID) ([]*entity.Showtime, error) {
	query := `
		SELECT ` + showtimeColumns + `
		FROM showtimes
		WHERE theater_id = $1
		  AND start_time <= $3
		  AND end_time >= $2
		  AND id <> $4
		ORDER BY start_time
	`
	return r.findMany(ctx, query, theaterID, start, end, excludeID)
}

func (r *showtimeRepository) count(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	var total int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&total); err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err))
		return 0, fmt.Errorf("failed to count showtimes: %w", database.MapError(err))
	}
	return total, nil
}

func (r *showtimeRepository) CountByTheater(ctx context.Context, theaterID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM showtimes WHERE theater_id = $1`, theaterID)
}

func (r *showtimeRepository) CountByMovie(ctx context.Context, movieID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM showtimes WHERE movie_id = $1`, movieID)
}

func (r *showtimeRepository) MaxSeatsInTheater(ctx context.Context, theaterID uuid.UUID) (int, error) {
	n, err := r.count(ctx, `SELECT COALESCE(MAX(max_seats), 0) FROM showtimes WHERE theater_id = $1`, theaterID)
	return int(n), err
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET movie_id = $2, theater_id = $3, start_time = $4, end_time = $5,
		    max_seats = $6, available_seats = $7, updated_at = $8, version = version + 1
		WHERE id = $1 AND version = $9
		RETURNING version
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		showtime.ID,
		showtime.MovieID,
		showtime.TheaterID,
		showtime.StartTime,
		showtime.EndTime,
		showtime.MaxSeats,
		showtime.AvailableSeats,
		showtime.UpdatedAt,
		showtime.Version,
	).Scan(&showtime.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update showtime %s: %w", showtime.ID, database.ErrStaleRow)
	}
	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("failed to update showtime: %w", database.MapError(err))
	}

	return nil
}

func (r *showtimeRepository) DecrementAvailableSeats(ctx context.Context, id uuid.UUID, n int) error {
	query := `
		UPDATE showtimes
		SET available_seats = available_seats - $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND available_seats >= $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, n)
	if err != nil {
		r.log.Error("Failed to decrement available seats",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
			zap.Int("seats", n),
		)
		return fmt.Errorf("failed to decrement available seats: %w", database.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("decrement seats of showtime %s: %w", id, database.ErrStaleRow)
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("failed to delete showtime: %w", database.MapError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete showtime %s: %w", id, database.ErrStaleRow)
	}

	return nil
}
