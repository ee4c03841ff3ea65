package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/config"
	"github.com/marcelsud/bookshelf/internal/store"
	"github.com/marcelsud/bookshelf/seed"
)

/* cli - popula o banco configurado a partir de um arquivo YAML
 * Usage: go run cmd/cli/main.go [books.yaml]
 */

func main() {
	seedFile := "books.yaml"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		return
	}
	loader := seed.NewLoader()
	if err := loader.Load(seedFile); err != nil {
		fmt.Println(err)
		return
	}
	ctx := context.Background()
	repo, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)
	s := book.NewService(repo)
	created, err := loader.Apply(ctx, s)
	for _, b := range created {
		fmt.Printf("[%d] %s by %s\n", b.ID, b.Title, b.Author)
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%d book(s) seeded into %s\n", len(created), cfg.DBDriver)
}
