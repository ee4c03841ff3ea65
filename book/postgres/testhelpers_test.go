//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
Test Helpers para PostgreSQL com Testcontainers

- Sobe um container Docker do PostgreSQL
- Retorna connection string
- Cleanup automático após testes

Referências:
- https://golang.testcontainers.org/modules/postgres/
- https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
*/

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// PostgresContainer encapsula o container e a conexão
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	ConnStr   string
}

// SetupPostgresContainer cria e inicia um container PostgreSQL real
func SetupPostgresContainer(t *testing.T, ctx context.Context) (*PostgresContainer, func()) {
	t.Helper()

	// Criar container PostgreSQL usando o módulo oficial
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	// Obter connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Conectar ao banco
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)

	// Verificar conexão
	err = db.PingContext(ctx)
	require.NoError(t, err)

	container := &PostgresContainer{
		Container: pgContainer,
		DB:        db,
		ConnStr:   connStr,
	}

	// Cleanup function
	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return container, cleanup
}

// CreateTestSchema cria a tabela books no PostgreSQL
func CreateTestSchema(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	schema := `
		CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL
		)
	`

	_, err := db.ExecContext(ctx, schema)
	require.NoError(t, err)
}

// DropTestSchema remove a tabela books usando o próprio repositório
func DropTestSchema(t *testing.T, ctx context.Context, repo *Repository) {
	t.Helper()

	err := repo.DropTable(ctx)
	require.NoError(t, err)
}

// TableExists verifica se a tabela books existe
func TableExists(t *testing.T, ctx context.Context, db *sql.DB) bool {
	t.Helper()

	var name sql.NullString
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.books')::text").Scan(&name)
	require.NoError(t, err)
	return name.Valid
}

// CleanupDatabase remove todos os registros da tabela books
func CleanupDatabase(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE books RESTART IDENTITY CASCADE")
	require.NoError(t, err)
}

// PopulateSampleData insere dados de exemplo para testes
func PopulateSampleData(t *testing.T, ctx context.Context, db *sql.DB) {
	t.Helper()

	testBooks := []struct {
		title  string
		author string
	}{
		{"Neuromancer", "William Gibson"},
		{"Dune", "Frank Herbert"},
		{"1984", "George Orwell"},
	}

	for _, book := range testBooks {
		query := `INSERT INTO books (title, author) VALUES ($1, $2)`
		_, err := db.ExecContext(ctx, query, book.title, book.author)
		require.NoError(t, err)
	}
}

// AssertBookCount verifica quantos livros estão no banco
func AssertBookCount(t *testing.T, ctx context.Context, db *sql.DB, expected int) {
	t.Helper()

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// GetBookByID busca um livro pelo ID (helper para assertions)
func GetBookByID(t *testing.T, ctx context.Context, db *sql.DB, id int64) (title, author string) {
	t.Helper()

	query := "SELECT title, author FROM books WHERE id = $1"
	err := db.QueryRowContext(ctx, query, id).Scan(&title, &author)
	require.NoError(t, err)

	return
}

// CreateTestRepository cria um repositório para testes
func CreateTestRepository(t *testing.T, connStr string) *Repository {
	t.Helper()

	repo, err := NewRepository(connStr)
	require.NoError(t, err)

	return repo
}
