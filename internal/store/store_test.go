package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

var columns = []string{"id", "email", "first_name", "gender", "birth", "consent", "newsletter_campaign"}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	return New(db), mock, func() { db.Close() }
}

func TestInsert_AssignsID(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	birth := time.Date(1996, 6, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO subscriptions (email, first_name, gender, birth, consent, newsletter_campaign)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`)).
		WithArgs("a@x.com", sqlmock.AnyArg(), sqlmock.AnyArg(), birth, true, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	sub, err := s.Insert(context.Background(), subscription.Subscription{
		Email:              "a@x.com",
		Birth:              birth,
		Consent:            true,
		NewsletterCampaign: 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if sub.ID != 7 {
		t.Fatalf("want id=7, got %d", sub.ID)
	}
	if sub.Email != "a@x.com" || !sub.Consent || sub.NewsletterCampaign != 1 {
		t.Fatalf("submitted fields not intact: %+v", sub)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestInsert_UniqueViolation_IsConflict(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.Insert(context.Background(), subscription.Subscription{
		Email:              "a@x.com",
		Birth:              time.Now(),
		NewsletterCampaign: 1,
	})
	if !errors.Is(err, subscription.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestInsert_OtherErrorIsNotConflict(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("INSERT INTO subscriptions").
		WillReturnError(errors.New("connection reset"))

	_, err := s.Insert(context.Background(), subscription.Subscription{Email: "a@x.com"})
	if err == nil || errors.Is(err, subscription.ErrConflict) {
		t.Fatalf("want plain error, got %v", err)
	}
}

func TestSelect_AppliesOnlyPresentFilters(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, email, first_name, gender, birth, consent, newsletter_campaign FROM subscriptions WHERE gender = $1 AND newsletter_campaign = $2 ORDER BY id`)).
		WithArgs(1, int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "a@x.com", nil, 1, time.Now(), true, 5).
			AddRow(2, "b@x.com", "Bea", 1, time.Now(), false, 5))

	subs, err := s.Select(context.Background(), subscription.Filter{
		Gender:             subscription.GenderMale,
		NewsletterCampaign: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("want 2 rows, got %d", len(subs))
	}
	if subs[1].FirstName != "Bea" {
		t.Fatalf("nullable first_name not scanned: %+v", subs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSelect_PaginatesOnlyWhenBothSet(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	// take without skip: no OFFSET/LIMIT at all
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, email, first_name, gender, birth, consent, newsletter_campaign FROM subscriptions ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := s.Select(context.Background(), subscription.Filter{Take: 10}); err != nil {
		t.Fatal(err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, email, first_name, gender, birth, consent, newsletter_campaign FROM subscriptions ORDER BY id OFFSET $1 LIMIT $2`)).
		WithArgs(20, 10).
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := s.Select(context.Background(), subscription.Filter{Skip: 20, Take: 10}); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectQuery("SELECT .* FROM subscriptions WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), 99)
	if !errors.Is(err, subscription.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, mock, done := newMock(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscriptions WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := s.Delete(context.Background(), 7)
	if err != nil {
		t.Fatal(err)
	}
	if res.Affected != 1 {
		t.Fatalf("want 1 affected row, got %d", res.Affected)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM subscriptions WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := s.Delete(context.Background(), 7); !errors.Is(err, subscription.ErrNotFound) {
		t.Fatalf("want ErrNotFound on zero rows, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
