package service

import (
	"context"
	"fmt"
	"time"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
	"golden-samovar/internal/xpkg/logger"
)

const (
	// SlotCapacity is how many bookings one (date, time) slot holds; a
	// booking occupies one slot unit regardless of party size.
	SlotCapacity = 10

	openingHour = 10
	closingHour = 22

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type BookingService struct {
	bookings repository.BookingRepository
	tx       repository.TxManager
	mylog    logger.Logger

	now func() time.Time
}

func NewBookingService(bookings repository.BookingRepository, tx repository.TxManager, mylog logger.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		tx:       tx,
		mylog:    mylog,
		now:      time.Now,
	}
}

type CreateBookingInput struct {
	BookingDate     string `json:"booking_date"`
	BookingTime     string `json:"booking_time"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests,omitempty"`
	ContactPhone    string `json:"contact_phone"`
	Hall            string `json:"hall,omitempty"`
}

func (in CreateBookingInput) validate(now time.Time) error {
	if _, err := time.Parse(dateLayout, in.BookingDate); err != nil {
		return apperrors.Validation("booking_date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(timeLayout, in.BookingTime); err != nil {
		return apperrors.Validation("booking_time must be in HH:MM format")
	}
	if in.NumberOfGuests < 1 {
		return apperrors.Validation("number_of_guests must be at least 1")
	}
	if in.ContactPhone == "" {
		return apperrors.Validation("contact_phone is required")
	}

	when, err := time.ParseInLocation(dateLayout+" "+timeLayout, in.BookingDate+" "+in.BookingTime, now.Location())
	if err != nil {
		return apperrors.Validation("invalid booking date or time")
	}
	if when.Before(now) {
		return apperrors.ErrPastBookingTime
	}
	return nil
}

// Create checks the slot capacity and inserts the booking inside one
// serializable transaction, so two concurrent requests cannot both squeeze
// past the limit.
func (s *BookingService) Create(ctx context.Context, userID int64, in CreateBookingInput) (*domain.TableBooking, error) {
	if err := in.validate(s.now()); err != nil {
		return nil, err
	}

	booking := &domain.TableBooking{
		UserID:          userID,
		BookingDate:     in.BookingDate,
		BookingTime:     in.BookingTime,
		NumberOfGuests:  in.NumberOfGuests,
		Status:          domain.BookingStatusPending,
		SpecialRequests: in.SpecialRequests,
		ContactPhone:    in.ContactPhone,
		Hall:            in.Hall,
	}
	if booking.Hall == "" {
		booking.Hall = "main"
	}

	err := s.tx.WithSerializableTx(ctx, func(ctx context.Context) error {
		count, err := s.bookings.CountActive(ctx, in.BookingDate, in.BookingTime)
		if err != nil {
			return err
		}
		if count >= SlotCapacity {
			return apperrors.ErrSlotFull
		}
		return s.bookings.Create(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.mylog.Action("booking_created").
		With("booking_date", booking.BookingDate).With("booking_time", booking.BookingTime).
		Info("booking created")
	return booking, nil
}

// AvailableTimes lists the half-hour slots of the working day that still
// have capacity, in chronological order.
func (s *BookingService) AvailableTimes(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.Validation("date must be in YYYY-MM-DD format")
	}

	counts, err := s.bookings.ActiveCountsByTime(ctx, date)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, (closingHour-openingHour)*2)
	for hour := openingHour; hour < closingHour; hour++ {
		for _, minute := range []int{0, 30} {
			slot := fmt.Sprintf("%02d:%02d", hour, minute)
			if counts[slot] < SlotCapacity {
				available = append(available, slot)
			}
		}
	}
	return available, nil
}

// Get returns one booking; clients may only read their own.
func (s *BookingService) Get(ctx context.Context, p Principal, bookingID int64) (*domain.TableBooking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, ActionReadBooking, booking.UserID); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, userID int64, status domain.BookingStatus) ([]domain.TableBooking, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation("unknown booking status: %s", status)
	}
	return s.bookings.List(ctx, repository.BookingFilter{UserID: userID, Status: status})
}

func (s *BookingService) ListAll(ctx context.Context, p Principal, f repository.BookingFilter) ([]domain.TableBooking, error) {
	if err := Authorize(p, ActionListAllBookings, 0); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.Validation("unknown booking status: %s", f.Status)
	}
	if f.Date != "" {
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			return nil, apperrors.Validation("date must be in YYYY-MM-DD format")
		}
	}
	return s.bookings.List(ctx, f)
}

// UpdateStatus drives the booking state machine; confirming may attach a
// table number.
func (s *BookingService) UpdateStatus(ctx context.Context, p Principal, bookingID int64, next domain.BookingStatus, tableNumber string) (*domain.TableBooking, error) {
	if err := Authorize(p, ActionManageBooking, 0); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, apperrors.Validation("unknown booking status: %s", next)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidStatusTransition(string(booking.Status), string(next))
	}

	booking.Status = next
	if tableNumber != "" {
		booking.TableNumber = tableNumber
	}
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.mylog.Action("booking_status_updated").
		With("booking_id", booking.ID).With("status", next).
		Info("booking status updated")
	return booking, nil
}

// Cancel cancels a pending or confirmed booking; clients only their own.
func (s *BookingService) Cancel(ctx context.Context, p Principal, bookingID int64) (*domain.TableBooking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, ActionCancelBooking, booking.UserID); err != nil {
		return nil, err
	}
	if booking.Status.Terminal() {
		return nil, apperrors.Business("booking in status %s cannot be cancelled", booking.Status)
	}

	booking.Status = domain.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.mylog.Action("booking_cancelled").With("booking_id", booking.ID).Info("booking cancelled")
	return booking, nil
}
