package application_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rise-rentals/service-booking/internal/application"
	batteryDomain "github.com/rise-rentals/service-booking/internal/domain/battery"
	boatDomain "github.com/rise-rentals/service-booking/internal/domain/boat"
	priceDomain "github.com/rise-rentals/service-booking/internal/domain/price"
	userDomain "github.com/rise-rentals/service-booking/internal/domain/user"
	"github.com/rise-rentals/service-booking/internal/repository"
)

type sentMail struct {
	kind      string
	email     string
	firstName string
	bookingID int64
	rentalAt  time.Time
	reason    string
}

// recordingNotifier captures notifications and can be told to fail.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *recordingNotifier) SendBookingConfirmed(_ context.Context, email, firstName string, bookingID int64, rentalAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("mail relay down")
	}
	n.sent = append(n.sent, sentMail{kind: "confirmed", email: email, firstName: firstName, bookingID: bookingID, rentalAt: rentalAt})
	return nil
}

func (n *recordingNotifier) SendBookingCanceled(_ context.Context, email, firstName string, bookingID int64, rentalAt time.Time, reason string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("mail relay down")
	}
	n.sent = append(n.sent, sentMail{kind: "canceled", email: email, firstName: firstName, bookingID: bookingID, rentalAt: rentalAt, reason: reason})
	return nil
}

func (n *recordingNotifier) ofKind(kind string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type harness struct {
	db        *gorm.DB
	repos     application.Repositories
	uow       application.UnitOfWork
	notifier  *recordingNotifier
	bookings  *application.BookingService
	timeslots *application.TimeSlotService
	inventory *application.InventoryService
	prices    *application.PriceService

	userA   int64
	userB   int64
	priceID int64
}

func newHarness(t *testing.T, opts ...application.BookingServiceOption) *harness {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "booking.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	repos := repository.NewRepositories(db)
	uow := repository.NewGormUnitOfWork(db, false)
	notifier := &recordingNotifier{}

	h := &harness{
		db:        db,
		repos:     repos,
		uow:       uow,
		notifier:  notifier,
		bookings:  application.NewBookingService(repos, uow, notifier, log, opts...),
		timeslots: application.NewTimeSlotService(repos, uow, notifier, log),
		inventory: application.NewInventoryService(repos, uow, nil, nil, log),
		prices:    application.NewPriceService(repos, log),
	}
	h.userA = h.addUser(t, "anna@example.com", "Anna")
	h.userB = h.addUser(t, "bert@example.com", "Bert")

	p, err := priceDomain.NewPrice(4500, "EUR")
	require.NoError(t, err)
	require.NoError(t, repos.Prices.Save(context.Background(), p))
	h.priceID = p.ID()
	return h
}

func (h *harness) addUser(t *testing.T, email, firstName string) int64 {
	t.Helper()
	u, err := userDomain.NewUser(email, firstName, "Tester", "", "user")
	require.NoError(t, err)
	require.NoError(t, h.repos.Users.Save(context.Background(), u))
	return u.ID()
}

func (h *harness) addBoats(t *testing.T, names ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		b, err := boatDomain.NewBoat(name)
		require.NoError(t, err)
		require.NoError(t, h.repos.Boats.Save(context.Background(), b))
		ids = append(ids, b.ID())
	}
	return ids
}

func (h *harness) addBattery(t *testing.T, name string) int64 {
	t.Helper()
	b, err := batteryDomain.NewBattery(name, nil)
	require.NoError(t, err)
	require.NoError(t, h.repos.Batteries.Save(context.Background(), b))
	return b.ID()
}

func (h *harness) book(ctx context.Context, userID int64, at time.Time, boatID, batteryID *int64) (*application.BookingDTO, error) {
	return h.bookings.CreateBooking(ctx, application.CreateBookingRequest{
		RentalAt:  at,
		BoatID:    boatID,
		BatteryID: batteryID,
		UserID:    userID,
		PriceID:   h.priceID,
	})
}

func ptr(v int64) *int64 { return &v }

// slot returns a fixed future rental moment on day offset d at hour h.
func slot(d, h int) time.Time {
	return time.Date(2030, 5, 10+d, h, 0, 0, 0, time.UTC)
}
