package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marcelsud/bookshelf/book"
	_ "github.com/lib/pq" // PostgreSQL driver
)

/*
PostgreSQL Repository Implementation

- placeholders $1, $2 ao invés de ?
- BIGSERIAL ao invés de AUTOINCREMENT; a sequence nunca reutiliza ids
- ILIKE para busca case-insensitive
*/

type Repository struct {
	DB *sql.DB
}

// NewRepository cria uma nova instância do repositório PostgreSQL com pool padrão (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig cria uma nova instância do repositório PostgreSQL com configuração customizável
// maxOpenConns: máximo de conexões simultâneas (0 = ilimitado)
// maxIdleConns: máximo de conexões inativas mantidas no pool
// maxLifeMinutes: duração máxima em minutos que uma conexão pode ser reutilizada
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// Select busca um livro por ID
func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	query := "SELECT id, title, author FROM books WHERE id = $1"

	var b book.Book
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}

	return b, nil
}

// SelectAll retorna todos os livros ordenados por id
func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	return r.query(ctx, "SELECT id, title, author FROM books ORDER BY id")
}

// SelectPage retorna uma página de livros e o total de registros
func (r *Repository) SelectPage(ctx context.Context, req book.PageRequest) (book.Page, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return book.Page{}, err
	}

	query := "SELECT id, title, author FROM books" + orderBy(req.Sort) + " LIMIT $1 OFFSET $2"
	books, err := r.query(ctx, query, req.Size, req.Offset())
	if err != nil {
		return book.Page{}, err
	}

	return book.NewPage(books, req, total), nil
}

// SearchByTitle busca livros cujo título contém text, ignorando maiúsculas
func (r *Repository) SearchByTitle(ctx context.Context, text string) ([]book.Book, error) {
	query := `SELECT id, title, author FROM books WHERE title ILIKE $1 ESCAPE '\' ORDER BY id`
	return r.query(ctx, query, "%"+escapeLike(text)+"%")
}

// Exists verifica se existe um livro com o ID
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)"

	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking book: %w", err)
	}

	return exists, nil
}

// Count retorna o total de livros
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&total); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return total, nil
}

// Insert insere um novo livro e retorna o ID gerado
func (r *Repository) Insert(ctx context.Context, b book.Book) (int64, error) {
	// PostgreSQL retorna o ID usando RETURNING
	query := "INSERT INTO books (title, author) VALUES ($1, $2) RETURNING id"

	var id int64
	err := r.DB.QueryRowContext(ctx, query, b.Title, b.Author).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}

	return id, nil
}

// Update atualiza título e autor de um livro existente
func (r *Repository) Update(ctx context.Context, b book.Book) error {
	query := "UPDATE books SET title = $1, author = $2 WHERE id = $3"

	result, err := r.DB.ExecContext(ctx, query, b.Title, b.Author, b.ID)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// Delete remove um livro por ID
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := "DELETE FROM books WHERE id = $1"

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// Close fecha a conexão com o banco de dados
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable cria a tabela books se ela ainda não existir
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL
		)
	`

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	return nil
}

// DropTable remove a tabela books (útil para testes)
func (r *Repository) DropTable(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS books CASCADE"

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
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
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike faz com que % e _ sejam comparados literalmente
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
