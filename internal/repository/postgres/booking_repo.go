package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

type BookingRepo struct {
	store *Store
}

func NewBookingRepo(store *Store) *BookingRepo {
	return &BookingRepo{store: store}
}

var _ repository.BookingRepository = (*BookingRepo)(nil)

const bookingColumns = `id, user_id, booking_date::text, to_char(booking_time, 'HH24:MI'),
	number_of_guests, COALESCE(table_number, ''), status, COALESCE(special_requests, ''),
	contact_phone, hall, created_at`

func scanBooking(row pgx.Row) (*domain.TableBooking, error) {
	var b domain.TableBooking
	err := row.Scan(
		&b.ID, &b.UserID, &b.BookingDate, &b.BookingTime, &b.NumberOfGuests,
		&b.TableNumber, &b.Status, &b.SpecialRequests, &b.ContactPhone, &b.Hall, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) Create(ctx context.Context, b *domain.TableBooking) error {
	err := r.store.q(ctx).QueryRow(ctx, `
		INSERT INTO table_bookings (
			user_id, booking_date, booking_time, number_of_guests,
			table_number, status, special_requests, contact_phone, hall
		)
		VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		b.UserID, b.BookingDate, b.BookingTime, b.NumberOfGuests,
		nullIfEmpty(b.TableNumber), b.Status, nullIfEmpty(b.SpecialRequests), b.ContactPhone, b.Hall,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id int64) (*domain.TableBooking, error) {
	b, err := scanBooking(r.store.q(ctx).QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM table_bookings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) List(ctx context.Context, f repository.BookingFilter) ([]domain.TableBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM table_bookings WHERE 1=1`
	args := []any{}

	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(` AND booking_date = $%d::date`, len(args))
	}
	query += ` ORDER BY booking_date, booking_time, id`

	rows, err := r.store.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.TableBooking
	for rows.Next() {
		var b domain.TableBooking
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.BookingDate, &b.BookingTime, &b.NumberOfGuests,
			&b.TableNumber, &b.Status, &b.SpecialRequests, &b.ContactPhone, &b.Hall, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepo) Update(ctx context.Context, b *domain.TableBooking) error {
	tag, err := r.store.q(ctx).Exec(ctx, `
		UPDATE table_bookings
		SET status = $1, table_number = $2
		WHERE id = $3
	`, b.Status, nullIfEmpty(b.TableNumber), b.ID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("booking not found")
	}
	return nil
}

func (r *BookingRepo) CountActive(ctx context.Context, date, timeOfDay string) (int, error) {
	var count int
	err := r.store.q(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM table_bookings
		WHERE booking_date = $1::date AND booking_time = $2::time
		  AND status IN ('pending', 'confirmed')
	`, date, timeOfDay).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *BookingRepo) ActiveCountsByTime(ctx context.Context, date string) (map[string]int, error) {
	rows, err := r.store.q(ctx).Query(ctx, `
		SELECT to_char(booking_time, 'HH24:MI'), COUNT(*)
		FROM table_bookings
		WHERE booking_date = $1::date AND status IN ('pending', 'confirmed')
		GROUP BY booking_time
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings by time: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slot string
		var count int
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[slot] = count
	}
	return counts, rows.Err()
}
