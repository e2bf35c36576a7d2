package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mutter0815/NewsletterHub/internal/subscription"
)

const selectColumns = `id, email, first_name, gender, birth, consent, newsletter_campaign`

// Store owns persistence for subscription records. Uniqueness of
// (email, newsletter_campaign) is enforced by the unique index, never by a
// check-then-insert.
type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store { return &Store{DB: db} }

// uniqueViolation is the postgres error code the unique index raises.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Insert persists a new subscription and returns it with the assigned id.
// A unique-index violation maps to subscription.ErrConflict; any other
// failure is returned as-is for the caller to treat as internal.
func (s *Store) Insert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	var firstName sql.NullString
	if sub.FirstName != "" {
		firstName = sql.NullString{String: sub.FirstName, Valid: true}
	}
	var gender sql.NullInt32
	if sub.Gender != 0 {
		gender = sql.NullInt32{Int32: int32(sub.Gender), Valid: true}
	}

	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO subscriptions (email, first_name, gender, birth, consent, newsletter_campaign)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		sub.Email, firstName, gender, sub.Birth, sub.Consent, sub.NewsletterCampaign,
	).Scan(&sub.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return subscription.Subscription{}, subscription.ErrConflict
		}
		return subscription.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	return sub, nil
}

// Select lists subscriptions matching the filter. Present filter fields are
// ANDed; skip/take apply only when both are set. An empty result is not an
// error at this layer.
func (s *Store) Select(ctx context.Context, f subscription.Filter) ([]subscription.Subscription, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Gender != 0 {
		add("gender = $%d", int(f.Gender))
	}
	if !f.Birth.IsZero() {
		add("birth = $%d", f.Birth)
	}
	if f.NewsletterCampaign != 0 {
		add("newsletter_campaign = $%d", f.NewsletterCampaign)
	}

	q := `SELECT ` + selectColumns + ` FROM subscriptions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"
	if f.Paginated() {
		q += fmt.Sprintf(" OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
		args = append(args, f.Skip, f.Take)
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []subscription.Subscription
	for rows.Next() {
		sub, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	return subs, nil
}

// GetByID fetches a single subscription; absence maps to ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (subscription.Subscription, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM subscriptions WHERE id = $1`, id)
	sub, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return subscription.Subscription{}, subscription.ErrNotFound
	}
	if err != nil {
		return subscription.Subscription{}, err
	}
	return sub, nil
}

// Delete removes a subscription by id. Zero affected rows maps to
// ErrNotFound; the store cannot tell "absent" from "already gone".
func (s *Store) Delete(ctx context.Context, id int64) (subscription.DeletionResult, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return subscription.DeletionResult{}, fmt.Errorf("delete subscription: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return subscription.DeletionResult{}, fmt.Errorf("delete subscription: %w", err)
	}
	if affected == 0 {
		return subscription.DeletionResult{}, subscription.ErrNotFound
	}
	return subscription.DeletionResult{Affected: affected}, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRow(row scannable) (subscription.Subscription, error) {
	var (
		sub       subscription.Subscription
		firstName sql.NullString
		gender    sql.NullInt32
	)
	err := row.Scan(&sub.ID, &sub.Email, &firstName, &gender, &sub.Birth, &sub.Consent, &sub.NewsletterCampaign)
	if err != nil {
		return subscription.Subscription{}, err
	}
	sub.FirstName = firstName.String
	sub.Gender = subscription.Gender(gender.Int32)
	return sub, nil
}
