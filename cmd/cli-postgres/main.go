package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/book/postgres"
	"github.com/marcelsud/bookshelf/config"
)

/*
CLI PostgreSQL - Exemplo de uso do repositório PostgreSQL

Este CLI demonstra:
- Como usar Config para carregar variáveis PostgreSQL
- Como conectar ao PostgreSQL
- Como usar o postgres.Repository
- Como usar o book.Service
- Como executar operações CRUD, paginação, busca por título e exportação CSV

Execute com:
  go run cmd/cli-postgres/main.go

Ou com Makefile:
  make cli-postgres

Certifique-se de que:
1. PostgreSQL está rodando (docker-compose up)
2. .env está configurado com POSTGRES_* variables
3. A tabela books é criada automaticamente se não existir
*/

func main() {
	// 1. Carregar configuração
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Printf("❌ Error loading config: %v\n", err)
		return
	}

	// 1a. Validar configuração PostgreSQL
	if err := cfg.ValidatePostgres(); err != nil {
		fmt.Printf("❌ Configuration validation failed: %v\n", err)
		return
	}

	ctx := context.Background()

	// 2. Conectar ao PostgreSQL
	connStr := cfg.PostgresConnectionString()
	fmt.Printf("🔗 Connecting to PostgreSQL at %s:%s...\n", cfg.PostgresHost, cfg.PostgresPort)

	// Use configurable pool settings from config, with defaults if not set
	repo, err := postgres.NewRepositoryWithPoolConfig(
		connStr,
		cfg.GetPostgresMaxOpenConns(),
		cfg.GetPostgresMaxIdleConns(),
		cfg.GetPostgresConnMaxLifeMinutes(),
	)
	if err != nil {
		fmt.Printf("❌ Error connecting to PostgreSQL: %v\n", err)
		return
	}
	defer repo.Close(ctx)
	if err := repo.CreateTable(ctx); err != nil {
		fmt.Printf("❌ Error creating table: %v\n", err)
		return
	}
	fmt.Println("✅ Connected to PostgreSQL!")

	// 3. Criar service
	s := book.NewService(repo)

	// 4. Criar um livro de exemplo
	fmt.Println("\n📝 Creating a new book...")
	newBook, err := s.Create(ctx, "The Pragmatic Programmer", "Andy Hunt & Dave Thomas")
	if err != nil {
		fmt.Printf("❌ Error creating book: %v\n", err)
		return
	}

	fmt.Println("✅ Book created successfully!")
	fmt.Printf("   ID:       %d\n", newBook.ID)
	fmt.Printf("   Title:    %s\n", newBook.Title)
	fmt.Printf("   Author:   %s\n", newBook.Author)

	// 5. Listar a primeira página, do mais novo para o mais antigo
	fmt.Println("\n📚 First page of books:")
	page, err := s.List(ctx, book.PageRequest{Number: 0, Size: 5, Sort: book.Descending})
	if err != nil {
		fmt.Printf("❌ Error listing books: %v\n", err)
		return
	}
	for _, b := range page.Books {
		fmt.Printf("   [%d] %s by %s\n", b.ID, b.Title, b.Author)
	}
	fmt.Printf("   page %d of %d, %d book(s) in total\n", page.Number+1, page.TotalPages, page.TotalElements)

	// 6. Buscar um livro específico
	fmt.Printf("\n🔍 Fetching book with ID %d...\n", newBook.ID)
	retrieved, err := s.Get(ctx, newBook.ID)
	if err != nil {
		fmt.Printf("❌ Error retrieving book: %v\n", err)
		return
	}
	fmt.Printf("✅ Found: %s by %s\n", retrieved.Title, retrieved.Author)

	// 7. Buscar por parte do título
	found, err := s.Search(ctx, "pragmatic")
	if err != nil {
		fmt.Printf("❌ Error searching books: %v\n", err)
		return
	}
	fmt.Printf("\n🔎 %d book(s) matching \"pragmatic\"\n", len(found))

	// 8. Atualizar o livro
	fmt.Printf("\n✏️  Updating book %d...\n", retrieved.ID)
	updated, err := s.Update(ctx, retrieved.ID, "The Pragmatic Programmer, 20th Anniversary Edition", retrieved.Author)
	if err != nil {
		fmt.Printf("❌ Error updating book: %v\n", err)
		return
	}
	fmt.Printf("✅ Book updated! New title: %s\n", updated.Title)

	// 9. Exportar tudo em CSV
	fmt.Println("\n📤 Exporting books as CSV:")
	if _, err := s.Export(ctx, os.Stdout); err != nil {
		fmt.Printf("❌ Error exporting books: %v\n", err)
		return
	}

	// 10. Deletar o livro
	fmt.Printf("\n🗑️  Deleting book %d...\n", updated.ID)
	if err := s.Delete(ctx, updated.ID); err != nil {
		fmt.Printf("❌ Error deleting book: %v\n", err)
		return
	}
	fmt.Println("✅ Book deleted!")

	fmt.Println("\n✅ CLI completed successfully!")
}
