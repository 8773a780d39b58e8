package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/storage"
	"github.com/google/uuid"
)

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const loanColumns = `id, guild_id, category, creditor_id, creditor_name, debtor_id, debtor_name,
	original_amount, current_amount, status, notes, thread_ref, created_at, updated_at,
	accepted_at, last_accrual_at, completion_requested_by, completion_requested_at,
	close_requested_by, close_requested_at, version`

const paymentColumns = `id, loan_id, amount, proposed_by, status, recorded_at, settled_by, settled_at`

// Store implements the Storage interface on top of database/sql.
type Store struct {
	db     *sql.DB
	driver Driver
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetLoan retrieves a loan by its ID.
func (s *Store) GetLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+loanColumns+` FROM loans WHERE id = ?`), loanID)
	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loan with ID %s: %w", loanID, storage.ErrLoanNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return loan, nil
}

// ListLoansByStatus retrieves all loans in a status, oldest first.
func (s *Store) ListLoansByStatus(ctx context.Context, status models.LoanStatus) ([]models.Loan, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+loanColumns+` FROM loans WHERE status = ? ORDER BY created_at, id`), string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query loans by status: %w", err)
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}

// InsertLoan stores a new loan with a fresh ID and version 1.
func (s *Store) InsertLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	loan.ID = uuid.New().String()
	loan.Version = 1
	if loan.UpdatedAt.IsZero() {
		loan.UpdatedAt = loan.CreatedAt
	}

	query := `INSERT INTO loans (` + loanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{loan.ID}, loanValues(loan)...)
	args = append(args, loan.Version)
	if _, err := s.db.ExecContext(ctx, s.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to insert loan: %w", err)
	}
	return loan, nil
}

// UpdateLoan rewrites a loan only if its stored version equals expectedVersion.
func (s *Store) UpdateLoan(ctx context.Context, loan *models.Loan, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateLoanTx(ctx, tx, loan, expectedVersion); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		loan.Version = expectedVersion
		return fmt.Errorf("failed to commit loan update: %w", err)
	}
	return nil
}

// InsertPayment appends a payment to the ledger.
func (s *Store) InsertPayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if _, err := s.GetLoan(ctx, payment.LoanID); err != nil {
		return nil, err
	}

	payment.ID = uuid.New().String()
	if payment.Status == "" {
		payment.Status = models.PAYMENT_PENDING
	}

	query := `INSERT INTO payments (` + paymentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, s.rebind(query),
		payment.ID, payment.LoanID, payment.Amount, payment.ProposedBy, string(payment.Status),
		formatTime(payment.RecordedAt), payment.SettledBy, nullTime(payment.SettledAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	return payment, nil
}

// GetPayment retrieves a payment by its ID.
func (s *Store) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+paymentColumns+` FROM payments WHERE id = ?`), paymentID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment with ID %s: %w", paymentID, storage.ErrPaymentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// ListPaymentsByLoan retrieves the ledger of a loan, oldest first.
func (s *Store) ListPaymentsByLoan(ctx context.Context, loanID string) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+paymentColumns+` FROM payments WHERE loan_id = ? ORDER BY recorded_at, id`), loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by loan ID: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// ResolvePayment writes the payment's final status while it is still pending.
func (s *Store) ResolvePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.settlePaymentTx(ctx, tx, payment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment update: %w", err)
	}
	return nil
}

// SettlePayment updates the loan and the payment in one transaction.
func (s *Store) SettlePayment(ctx context.Context, loan *models.Loan, expectedVersion int64, payment *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.updateLoanTx(ctx, tx, loan, expectedVersion); err != nil {
		return err
	}
	if err := s.settlePaymentTx(ctx, tx, payment); err != nil {
		loan.Version = expectedVersion
		return err
	}

	if err := tx.Commit(); err != nil {
		loan.Version = expectedVersion
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

func (s *Store) updateLoanTx(ctx context.Context, tx *sql.Tx, loan *models.Loan, expectedVersion int64) error {
	query := `UPDATE loans SET guild_id = ?, category = ?, creditor_id = ?, creditor_name = ?, debtor_id = ?,
		debtor_name = ?, original_amount = ?, current_amount = ?, status = ?, notes = ?, thread_ref = ?,
		created_at = ?, updated_at = ?, accepted_at = ?, last_accrual_at = ?, completion_requested_by = ?,
		completion_requested_at = ?, close_requested_by = ?, close_requested_at = ?, version = ?
		WHERE id = ? AND version = ?`
	args := append(loanValues(loan), expectedVersion+1, loan.ID, expectedVersion)

	res, err := tx.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM loans WHERE id = ?`), loan.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("loan with ID %s: %w", loan.ID, storage.ErrLoanNotFound)
		}
		return storage.ErrVersionConflict
	}

	loan.Version = expectedVersion + 1
	return nil
}

func (s *Store) settlePaymentTx(ctx context.Context, tx *sql.Tx, payment *models.Payment) error {
	query := `UPDATE payments SET status = ?, settled_by = ?, settled_at = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, s.rebind(query),
		string(payment.Status), payment.SettledBy, nullTime(payment.SettledAt), payment.ID, string(models.PAYMENT_PENDING))
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, s.rebind(`SELECT 1 FROM payments WHERE id = ?`), payment.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("payment with ID %s: %w", payment.ID, storage.ErrPaymentNotFound)
		}
		return storage.ErrPaymentAlreadySettled
	}
	return nil
}

// loanValues returns every loan column except id and version, in loanColumns order.
func loanValues(l *models.Loan) []any {
	return []any{
		l.GuildID, string(l.Category), l.CreditorID, l.CreditorName, l.DebtorID, l.DebtorName,
		l.OriginalAmount, l.CurrentAmount, string(l.Status), l.Notes, l.ThreadRef,
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt), nullTime(l.AcceptedAt), nullTime(l.LastAccrualAt),
		l.CompletionRequestedBy, nullTime(l.CompletionRequestedAt), l.CloseRequestedBy, nullTime(l.CloseRequestedAt),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLoan(row scanner) (*models.Loan, error) {
	var (
		l                                 models.Loan
		category, status                  string
		createdAt, updatedAt              string
		acceptedAt, lastAccrualAt         sql.NullString
		completionReqAt, closeRequestedAt sql.NullString
	)
	err := row.Scan(&l.ID, &l.GuildID, &category, &l.CreditorID, &l.CreditorName, &l.DebtorID, &l.DebtorName,
		&l.OriginalAmount, &l.CurrentAmount, &status, &l.Notes, &l.ThreadRef, &createdAt, &updatedAt,
		&acceptedAt, &lastAccrualAt, &l.CompletionRequestedBy, &completionReqAt,
		&l.CloseRequestedBy, &closeRequestedAt, &l.Version)
	if err != nil {
		return nil, err
	}

	l.Category = models.Category(category)
	l.Status = models.LoanStatus(status)
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{acceptedAt, &l.AcceptedAt},
		{lastAccrualAt, &l.LastAccrualAt},
		{completionReqAt, &l.CompletionRequestedAt},
		{closeRequestedAt, &l.CloseRequestedAt},
	} {
		if *f.dst, err = parseNullTime(f.src); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

func scanPayment(row scanner) (*models.Payment, error) {
	var (
		p          models.Payment
		status     string
		recordedAt string
		settledAt  sql.NullString
	)
	if err := row.Scan(&p.ID, &p.LoanID, &p.Amount, &p.ProposedBy, &status, &recordedAt, &p.SettledBy, &settledAt); err != nil {
		return nil, err
	}

	p.Status = models.PaymentStatus(status)
	var err error
	if p.RecordedAt, err = parseTime(recordedAt); err != nil {
		return nil, err
	}
	if p.SettledAt, err = parseNullTime(settledAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
