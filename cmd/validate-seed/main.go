package main

import (
	"fmt"
	"os"

	"github.com/marcelsud/bookshelf/seed"
)

/* validate-seed - Standalone CLI tool to validate a seed file
 * Usage: go run cmd/validate-seed/main.go [books.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	seedFile := "books.yaml"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}

	fmt.Printf("Validating seed file: %s\n", seedFile)

	loader := seed.NewLoader()
	if err := loader.Load(seedFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	entries := loader.List()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("Loaded %d book(s):\n", len(entries))
	for i, e := range entries {
		author := e.Author
		if author == "" {
			author = "(unknown)"
		}
		fmt.Printf("%3d. %s, by %s\n", i+1, e.Title, author)
	}
	os.Exit(0)
}
