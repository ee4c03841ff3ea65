package turso

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite" // pure Go SQLite driver, registered as "sqlite"
	"github.com/marcelsud/bookshelf/book"
	"github.com/tursodatabase/go-libsql"
)

type Repository struct {
	DB        *sql.DB
	dir       string
	connector *libsql.Connector
}

// NewRepository opens an embedded replica of a Turso database, synced every 30 seconds.
func NewRepository(dbName, url, authToken string) (*Repository, error) {
	dir, err := os.MkdirTemp("", "libsql-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbName)
	syncInterval := time.Second * 30

	connector, err := libsql.NewEmbeddedReplicaConnector(dbPath, url,
		libsql.WithAuthToken(authToken),
		libsql.WithSyncInterval(syncInterval),
	)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("creating connector: %w", err)
	}
	db := sql.OpenDB(connector)
	return &Repository{
		DB:        db,
		dir:       dir,
		connector: connector,
	}, nil
}

// NewLocalRepository opens a plain SQLite file. Used for development and tests.
func NewLocalRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	return &Repository{
		DB: db,
	}, nil
}

func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	var b book.Book
	err := r.DB.QueryRowContext(ctx, "SELECT id, title, author FROM books WHERE id = ?", id).
		Scan(&b.ID, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	return r.query(ctx, "SELECT id, title, author FROM books ORDER BY id")
}

func (r *Repository) SelectPage(ctx context.Context, req book.PageRequest) (book.Page, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return book.Page{}, err
	}
	books, err := r.query(ctx, "SELECT id, title, author FROM books"+orderBy(req.Sort)+" LIMIT ? OFFSET ?",
		req.Size, req.Offset())
	if err != nil {
		return book.Page{}, err
	}
	return book.NewPage(books, req, total), nil
}

// SearchByTitle matches a literal substring of the title with full Unicode case folding.
// SQLite LIKE only folds ASCII, so the comparison happens in Go.
func (r *Repository) SearchByTitle(ctx context.Context, text string) ([]book.Book, error) {
	all, err := r.SelectAll(ctx)
	if err != nil {
		return nil, err
	}
	return book.FilterByTitle(all, text), nil
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM books WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking book: %w", err)
	}
	return exists, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return total, nil
}

func (r *Repository) Insert(ctx context.Context, book book.Book) (int64, error) {
	stmt, err := r.DB.PrepareContext(ctx, `
		insert into books (title, author)
		values(?,?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	result, err := stmt.ExecContext(ctx,
		book.Title,
		book.Author,
	)
	if err != nil {
		stmt.Close()
		return 0, fmt.Errorf("executing statement: %w", err)
	}
	err = stmt.Close()
	if err != nil {
		return 0, fmt.Errorf("closing statement: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert ID: %w", err)
	}

	return id, nil
}

func (r *Repository) Update(ctx context.Context, book book.Book) error {
	result, err := r.DB.ExecContext(ctx, `update books set title=?, author=? where id=?`,
		book.Title,
		book.Author,
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	return checkAffected(result)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return checkAffected(result)
}

// CreateTable creates the books table. AUTOINCREMENT keeps deleted ids from being handed out again.
func (r *Repository) CreateTable(ctx context.Context) error {
	sql := `CREATE TABLE IF NOT EXISTS books (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  author TEXT NOT NULL
);`
	_, err := r.DB.ExecContext(ctx, sql)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	if err := r.DB.Close(); err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	if r.connector != nil {
		if err := r.connector.Close(); err != nil {
			return fmt.Errorf("closing connector: %w", err)
		}
	}
	if r.dir != "" {
		if err := os.RemoveAll(r.dir); err != nil {
			return fmt.Errorf("removing temporary directory: %w", err)
		}
	}
	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]book.Book, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}

	for rows.Next() {
		var b book.Book

		if err := rows.Scan(&b.ID, &b.Title, &b.Author); err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}

		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("interacting with books: %w", err)
	}

	return books, nil
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return book.ErrNotFound
	}
	return nil
}

func orderBy(s book.SortOrder) string {
	switch s {
	case book.Ascending:
		return " ORDER BY id ASC"
	case book.Descending:
		return " ORDER BY id DESC"
	}
	return ""
}

