package ticket

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arpitmofficial/fest-management-system/internal/auditlog"
	"github.com/arpitmofficial/fest-management-system/internal/auth"
	"github.com/arpitmofficial/fest-management-system/internal/event"
)

type noopAudit struct{}

func (noopAudit) LogAction(context.Context, *uint, string, string, map[string]interface{}, string, string) {
}

func (noopAudit) GetAuditLogs(auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}

// openTestDB connects to the database named by TEST_DATABASE_DSN. The
// locking behavior under test needs real Postgres, so these tests skip
// when no database is provided.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	if err := db.AutoMigrate(&auth.Participant{}, &event.Event{}, &event.MerchandiseVariant{}, &Ticket{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedEvent(t *testing.T, db *gorm.DB, limit int) *event.Event {
	t.Helper()

	lim := limit
	e := &event.Event{
		EventName:            fmt.Sprintf("capacity test %d", time.Now().UnixNano()),
		Description:          "capacity test event",
		EventType:            event.TypeNormal,
		Eligibility:          event.EligibilityAll,
		RegistrationDeadline: time.Now().Add(24 * time.Hour),
		EventStartDate:       time.Now().Add(48 * time.Hour),
		EventEndDate:         time.Now().Add(72 * time.Hour),
		RegistrationLimit:    &lim,
		OrganizerID:          1,
		Status:               event.StatusPublished,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	t.Cleanup(func() {
		db.Where("event_id = ?", e.ID).Delete(&Ticket{})
		db.Delete(&event.Event{}, e.ID)
	})
	return e
}

func seedParticipants(t *testing.T, db *gorm.DB, n int) []auth.Participant {
	t.Helper()

	participants := make([]auth.Participant, n)
	for i := range participants {
		participants[i] = auth.Participant{
			FirstName:       "Load",
			LastName:        fmt.Sprintf("Tester%d", i),
			Email:           fmt.Sprintf("load%d-%d@example.com", i, time.Now().UnixNano()),
			ContactNumber:   "0000000000",
			PasswordHash:    "x",
			ParticipantType: auth.TypeNonIIIT,
			CollegeName:     "Test College",
		}
	}
	if err := db.Create(&participants).Error; err != nil {
		t.Fatalf("seed participants: %v", err)
	}
	t.Cleanup(func() {
		for _, p := range participants {
			db.Delete(&auth.Participant{}, p.ID)
		}
	})
	return participants
}

// Concurrent registrations against a small capacity must never oversell:
// exactly limit tickets succeed and the counter matches.
func TestRegisterNormalConcurrencyHonorsCapacity(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	const limit = 5
	const contenders = 20

	e := seedEvent(t, db, limit)
	participants := seedParticipants(t, db, contenders)

	var wg sync.WaitGroup
	errs := make([]error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := NewTicketID()
			if err != nil {
				errs[i] = err
				return
			}
			errs[i] = repo.RegisterNormal(&Ticket{
				TicketID:      code,
				EventID:       e.ID,
				ParticipantID: participants[i].ID,
				Status:        StatusConfirmed,
			})
		}(i)
	}
	wg.Wait()

	succeeded, full := 0, 0
	for _, err := range errs {
		switch err {
		case nil:
			succeeded++
		case ErrCapacityFull:
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != limit {
		t.Errorf("%d registrations succeeded, want %d", succeeded, limit)
	}
	if full != contenders-limit {
		t.Errorf("%d registrations hit capacity, want %d", full, contenders-limit)
	}

	var fresh event.Event
	if err := db.First(&fresh, e.ID).Error; err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if fresh.RegistrationCount != limit {
		t.Errorf("registration_count = %d, want %d", fresh.RegistrationCount, limit)
	}
	if !fresh.FormLocked {
		t.Error("first registration should lock the form")
	}
}

func TestRegisterNormalRejectsDuplicates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 10)
	participants := seedParticipants(t, db, 1)

	newTicket := func() *Ticket {
		code, err := NewTicketID()
		if err != nil {
			t.Fatalf("ticket id: %v", err)
		}
		return &Ticket{
			TicketID:      code,
			EventID:       e.ID,
			ParticipantID: participants[0].ID,
			Status:        StatusConfirmed,
		}
	}

	if err := repo.RegisterNormal(newTicket()); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := repo.RegisterNormal(newTicket()); err != ErrAlreadyRegistered {
		t.Fatalf("second registration: got %v, want ErrAlreadyRegistered", err)
	}
}

// Registration is open only while the event is published.
func TestRegisterNormalOnlyWhilePublished(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 10)
	participants := seedParticipants(t, db, 1)

	if err := db.Model(&event.Event{}).Where("id = ?", e.ID).
		Update("status", event.StatusOngoing).Error; err != nil {
		t.Fatalf("set status: %v", err)
	}

	code, err := NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	err = repo.RegisterNormal(&Ticket{
		TicketID:      code,
		EventID:       e.ID,
		ParticipantID: participants[0].ID,
		Status:        StatusConfirmed,
	})
	if err != ErrEventNotOpen {
		t.Fatalf("registration on ongoing event: got %v, want ErrEventNotOpen", err)
	}
}

// A purchase never exceeds the variant's recorded stock.
func TestPurchaseMerchChecksStock(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 100)
	participants := seedParticipants(t, db, 1)

	if err := db.Model(&event.Event{}).Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"event_type":                     event.TypeMerchandise,
			"purchase_limit_per_participant": 100,
		}).Error; err != nil {
		t.Fatalf("set event type: %v", err)
	}

	v := event.MerchandiseVariant{EventID: e.ID, Size: "M", Color: "Black", Stock: 1, Price: 499}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	t.Cleanup(func() { db.Delete(&event.MerchandiseVariant{}, v.ID) })

	newOrder := func(qty int) *Ticket {
		code, err := NewTicketID()
		if err != nil {
			t.Fatalf("ticket id: %v", err)
		}
		return &Ticket{
			TicketID:      code,
			EventID:       e.ID,
			ParticipantID: participants[0].ID,
			Status:        StatusPending,
			VariantID:     &v.ID,
			Quantity:      qty,
		}
	}

	if err := repo.PurchaseMerch(newOrder(50)); err != ErrInsufficientStock {
		t.Fatalf("order above stock: got %v, want ErrInsufficientStock", err)
	}
	if err := repo.PurchaseMerch(newOrder(1)); err != nil {
		t.Fatalf("order within stock: %v", err)
	}
}

// A rejected payment leaves the ticket rejected, not cancelled, and
// frees the capacity slot.
func TestDecidePaymentRejectLeavesRejectedStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 1)
	participants := seedParticipants(t, db, 2)

	code, err := NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	fee := 100.0
	pending := PaymentPending
	paid := &Ticket{
		TicketID:      code,
		EventID:       e.ID,
		ParticipantID: participants[0].ID,
		Status:        StatusPending,
		TotalAmount:   &fee,
		PaymentStatus: &pending,
	}
	if err := repo.RegisterNormal(paid); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc := &Service{Repo: repo, EventRepo: event.NewRepository(db), AuditSvc: noopAudit{}}
	org := &auth.Organizer{ID: e.OrganizerID}

	decided, err := svc.DecidePayment(code, false, org, "127.0.0.1")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if decided.Status != StatusRejected {
		t.Errorf("status = %q, want %q", decided.Status, StatusRejected)
	}

	stored, err := repo.FindByTicketID(code)
	if err != nil {
		t.Fatalf("reload ticket: %v", err)
	}
	if stored.Status != StatusRejected {
		t.Errorf("stored status = %q, want %q", stored.Status, StatusRejected)
	}
	if stored.PaymentStatus == nil || *stored.PaymentStatus != PaymentRejected {
		t.Error("payment status should be rejected")
	}

	// The freed slot admits the next registration.
	code, err = NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	next := &Ticket{TicketID: code, EventID: e.ID, ParticipantID: participants[1].ID, Status: StatusConfirmed}
	if err := repo.RegisterNormal(next); err != nil {
		t.Fatalf("registration after rejection: %v", err)
	}
}

// Checking in moves the ticket to the attended status; a second scan of
// the same ticket fails.
func TestMarkAttendanceSetsAttendedStatus(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 5)
	participants := seedParticipants(t, db, 1)

	code, err := NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.RegisterNormal(&Ticket{
		TicketID:      code,
		EventID:       e.ID,
		ParticipantID: participants[0].ID,
		Status:        StatusConfirmed,
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	svc := &Service{Repo: repo, EventRepo: event.NewRepository(db), AuditSvc: noopAudit{}}
	org := &auth.Organizer{ID: e.OrganizerID}

	scanned, err := svc.MarkAttendance(code, org, "127.0.0.1")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if scanned.Status != StatusAttended {
		t.Errorf("status = %q, want %q", scanned.Status, StatusAttended)
	}
	if !scanned.Attended || scanned.AttendedAt == nil {
		t.Error("check-in should set the attended flag and timestamp")
	}

	if _, err := svc.MarkAttendance(code, org, "127.0.0.1"); err == nil {
		t.Fatal("second scan accepted")
	}

	resp, err := svc.Verify(code, org)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if resp.Valid || resp.Reason != "ticket already used" {
		t.Errorf("verify after check-in: %+v", resp)
	}
}

// A confirmed ticket qualifies for feedback even before check-in;
// pending ones do not.
func TestHasConfirmedOrAttended(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 10)
	participants := seedParticipants(t, db, 2)

	ok, err := repo.HasConfirmedOrAttended(e.ID, participants[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("no ticket yet, should not qualify")
	}

	for i, status := range []string{StatusConfirmed, StatusPending} {
		code, err := NewTicketID()
		if err != nil {
			t.Fatal(err)
		}
		if err := repo.RegisterNormal(&Ticket{
			TicketID:      code,
			EventID:       e.ID,
			ParticipantID: participants[i].ID,
			Status:        status,
		}); err != nil {
			t.Fatalf("register %s: %v", status, err)
		}
	}

	if ok, err = repo.HasConfirmedOrAttended(e.ID, participants[0].ID); err != nil || !ok {
		t.Errorf("confirmed ticket should qualify, got ok=%v err=%v", ok, err)
	}
	if ok, err = repo.HasConfirmedOrAttended(e.ID, participants[1].ID); err != nil || ok {
		t.Errorf("pending ticket should not qualify, got ok=%v err=%v", ok, err)
	}
}

// Cancelling releases the capacity slot so the next registration fits.
func TestCancelReleasesCapacity(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)

	e := seedEvent(t, db, 1)
	participants := seedParticipants(t, db, 2)

	code, err := NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	first := &Ticket{TicketID: code, EventID: e.ID, ParticipantID: participants[0].ID, Status: StatusConfirmed}
	if err := repo.RegisterNormal(first); err != nil {
		t.Fatalf("first registration: %v", err)
	}

	code, err = NewTicketID()
	if err != nil {
		t.Fatal(err)
	}
	second := &Ticket{TicketID: code, EventID: e.ID, ParticipantID: participants[1].ID, Status: StatusConfirmed}
	if err := repo.RegisterNormal(second); err != ErrCapacityFull {
		t.Fatalf("over-capacity registration: got %v, want ErrCapacityFull", err)
	}

	if err := repo.Cancel(first); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if err := repo.RegisterNormal(second); err != nil {
		t.Fatalf("registration after cancel: %v", err)
	}
}
