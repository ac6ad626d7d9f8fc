package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrBookNotFound is returned when a book lookup matches no row.
var ErrBookNotFound = errors.New("book not found")

// BookRepo provides CRUD operations over the books table.  Copy
// counters (available_copies, total_borrows) are only mutated through
// the Tx methods below, which the borrow service calls inside its own
// transaction.
type BookRepo struct{ db *sql.DB }

// NewBookRepo returns a new BookRepo bound to the given database.
func NewBookRepo(db *sql.DB) *BookRepo { return &BookRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *BookRepo) DB() *sql.DB { return r.db }

const bookColumns = `id, title, author, isbn, publisher, publication_year, category,
	location_code, rfid_tag, description, total_copies, available_copies,
	total_borrows, notes, created_at, updated_at`

// Create inserts a book and populates the generated ID and timestamps.
// New books start with available_copies == total_copies unless the
// caller set available explicitly.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author, isbn, publisher, publication_year, category,
			location_code, rfid_tag, description, total_copies, available_copies,
			total_borrows, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Title, b.Author, b.ISBN, b.Publisher, b.PublicationYear, b.Category,
		b.LocationCode, b.RFIDTag, b.Description, b.TotalCopies, b.AvailableCopies,
		b.TotalBorrows, b.Notes, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByID fetches a single book or ErrBookNotFound.
func (r *BookRepo) GetByID(ctx context.Context, id uint64) (*model.Book, error) {
	return r.getOne(ctx, "SELECT "+bookColumns+" FROM books WHERE id = ?", id)
}

// GetByISBN fetches a book by its unique ISBN.
func (r *BookRepo) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	return r.getOne(ctx, "SELECT "+bookColumns+" FROM books WHERE isbn = ?", strings.TrimSpace(isbn))
}

func (r *BookRepo) getOne(ctx context.Context, query string, args ...any) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookNotFound
	}
	return b, err
}

// Update rewrites the descriptive columns of a book.  Copy counters
// are left alone; only total_copies may be adjusted here, and
// available_copies is clamped so the 0..total invariant holds.
func (r *BookRepo) Update(ctx context.Context, b *model.Book) error {
	if b.AvailableCopies > b.TotalCopies {
		b.AvailableCopies = b.TotalCopies
	}
	b.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title=?, author=?, isbn=?, publisher=?, publication_year=?,
			category=?, location_code=?, rfid_tag=?, description=?, total_copies=?,
			available_copies=?, notes=?, updated_at=?
		 WHERE id=?`,
		b.Title, b.Author, b.ISBN, b.Publisher, b.PublicationYear,
		b.Category, b.LocationCode, b.RFIDTag, b.Description, b.TotalCopies,
		b.AvailableCopies, b.Notes, b.UpdatedAt, b.ID)
	if err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrBookNotFound
	}
	return err
}

// Delete removes a book row. Ledger rows referencing it survive; the
// borrow ledger is append-only.
func (r *BookRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrBookNotFound
	}
	return err
}

// Search returns books whose title, author, ISBN or category match the
// given term. A blank term lists everything.
func (r *BookRepo) Search(ctx context.Context, term string) ([]*model.Book, error) {
	term = strings.TrimSpace(term)
	query := "SELECT " + bookColumns + " FROM books"
	args := []any{}
	if term != "" {
		like := "%" + term + "%"
		query += " WHERE title LIKE ? OR author LIKE ? OR isbn LIKE ? OR category LIKE ?"
		args = append(args, like, like, like, like)
	}
	query += " ORDER BY title"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DecrementAvailableTx atomically takes one copy off the shelf inside
// an existing transaction. The conditional WHERE clause means two
// concurrent borrows of the last copy cannot both succeed: the loser
// affects zero rows and gets ErrConflict.
func (r *BookRepo) DecrementAvailableTx(ctx context.Context, tx *sql.Tx, bookID uint64, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE books
		 SET available_copies = available_copies - 1,
		     total_borrows = total_borrows + 1,
		     updated_at = ?
		 WHERE id = ? AND available_copies > 0`,
		now, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// IncrementAvailableTx puts one copy back on the shelf, clamped so
// available_copies never exceeds total_copies even if a double return
// slips past the idempotency guard.
func (r *BookRepo) IncrementAvailableTx(ctx context.Context, tx *sql.Tx, bookID uint64, now time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE books
		 SET available_copies = available_copies + 1,
		     updated_at = ?
		 WHERE id = ? AND available_copies < total_copies`,
		now, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Already at total capacity; nothing to restore.
		return nil
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface{ Scan(dest ...any) error }

func scanBook(rs rowScanner) (*model.Book, error) {
	var (
		b         model.Book
		publisher sql.NullString
		pubYear   sql.NullInt64
		category  sql.NullString
		location  sql.NullString
		rfidTag   sql.NullString
		descr     sql.NullString
		notes     sql.NullString
	)
	err := rs.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &publisher, &pubYear,
		&category, &location, &rfidTag, &descr, &b.TotalCopies,
		&b.AvailableCopies, &b.TotalBorrows, &notes, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Publisher = strPtr(publisher)
	if pubYear.Valid {
		y := int(pubYear.Int64)
		b.PublicationYear = &y
	}
	b.Category = strPtr(category)
	b.LocationCode = strPtr(location)
	b.RFIDTag = strPtr(rfidTag)
	b.Description = strPtr(descr)
	b.Notes = strPtr(notes)
	return &b, nil
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func uintPtr(ni sql.NullInt64) *uint64 {
	if !ni.Valid {
		return nil
	}
	u := uint64(ni.Int64)
	return &u
}
