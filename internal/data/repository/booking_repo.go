package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theater-booking/internal/data/entity"
	"theater-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// CreateBatch inserts all bookings in one statement. A seat that is
	// already taken fails the whole batch with ErrUniqueViolation.
	CreateBatch(ctx context.Context, bookings []*entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	// FindBookedSeats returns which of seats already have a booking for
	// the showtime, in ascending order.
	FindBookedSeats(ctx context.Context, showtimeID uuid.UUID, seats []int) ([]int, error)
	ExistsByShowtimeAndSeat(ctx context.Context, showtimeID uuid.UUID, seatNumber int) (bool, error)
	CountByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, showtime_id, seat_number, price, booking_time, status`

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var (
		b     entity.Booking
		price pgtype.Numeric
	)
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.ShowtimeID,
		&b.SeatNumber,
		&price,
		&b.BookingTime,
		&b.Status,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		b.Price = decimal.NewFromBigInt(price.Int, price.Exp)
	}
	return &b, nil
}

func (r *bookingRepository) CreateBatch(ctx context.Context, bookings []*entity.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(`INSERT INTO bookings (` + bookingColumns + `) VALUES `)

	const cols = 7
	args := make([]any, 0, len(bookings)*cols)
	for i, b := range bookings {
		if i > 0 {
			query.WriteString(", ")
		}
		n := i * cols
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4, n+5, n+6, n+7)
		args = append(args, b.ID, b.UserID, b.ShowtimeID, b.SeatNumber, toNumeric(b.Price), b.BookingTime, b.Status)
	}

	_, err := database.Conn(ctx, r.db).Exec(ctx, query.String(), args...)
	if err != nil {
		err = database.MapError(err)
		if errors.Is(err, database.ErrUniqueViolation) {
			r.log.Warn("Seat taken while inserting bookings",
				zap.String("showtime_id", bookings[0].ShowtimeID.String()),
			)
		} else {
			r.log.Error("Failed to create bookings",
				zap.Error(err),
				zap.String("showtime_id", bookings[0].ShowtimeID.String()),
				zap.Int("count", len(bookings)),
			)
		}
		return fmt.Errorf("failed to create bookings: %w", err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY booking_time DESC, seat_number`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindBookedSeats(ctx context.Context, showtimeID uuid.UUID, seats []int) ([]int, error) {
	query := `
		SELECT seat_number FROM bookings
		WHERE showtime_id = $1 AND seat_number = ANY($2)
		ORDER BY seat_number
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, showtimeID, seats)
	if err != nil {
		r.log.Error("Failed to find booked seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("failed to find booked seats: %w", database.MapError(err))
	}

	booked, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan booked seats: %w", err)
	}

	return booked, nil
}

func (r *bookingRepository) ExistsByShowtimeAndSeat(ctx context.Context, showtimeID uuid.UUID, seatNumber int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE showtime_id = $1 AND seat_number = $2)`

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, showtimeID, seatNumber).Scan(&exists); err != nil {
		r.log.Error("Failed to check seat",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
			zap.Int("seat_number", seatNumber),
		)
		return false, fmt.Errorf("failed to check seat: %w", err)
	}

	return exists, nil
}

func (r *bookingRepository) CountByShowtime(ctx context.Context, showtimeID uuid.UUID) (int64, error) {
	var total int64
	err := database.Conn(ctx, r.db).
		QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE showtime_id = $1`, showtimeID).
		Scan(&total)
	if err != nil {
		r.log.Error("Failed to count bookings",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return 0, fmt.Errorf("failed to count bookings: %w", database.MapError(err))
	}
	return total, nil
}
