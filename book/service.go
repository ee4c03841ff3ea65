package book

import (
	"context"
	"fmt"
	"io"
)

/*
 * - Quando uma struct representa DADOS deveria usar sempre value semantics e não pointer (ex: Book) .
 * Se a struct representa uma API deveria ser pointer (ex: Service).
 * Para tipos primários (int, string) sempre value semantics
 * Para tipos internos (maps, slices) usar value semantics
 */

type UseCase interface {
	Create(ctx context.Context, title, author string) (Book, error)
	List(ctx context.Context, req PageRequest) (Page, error)
	Get(ctx context.Context, id int64) (Book, error)
	Search(ctx context.Context, title string) ([]Book, error)
	Update(ctx context.Context, id int64, title, author string) (Book, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, w io.Writer) (int, error)
	Import(ctx context.Context, r io.Reader) (int, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

func (s *Service) Create(ctx context.Context, title, author string) (Book, error) {
	b := Book{
		Title:  title,
		Author: author,
	}
	id, err := s.Repo.Insert(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("inserting book: %w", err)
	}
	b.ID = id
	return b, nil
}

func (s *Service) List(ctx context.Context, req PageRequest) (Page, error) {
	if err := req.Validate(); err != nil {
		return Page{}, err
	}
	p, err := s.Repo.SelectPage(ctx, req)
	if err != nil {
		return Page{}, fmt.Errorf("selecting page: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

func (s *Service) Search(ctx context.Context, title string) ([]Book, error) {
	found, err := s.Repo.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	return found, nil
}

// Update replaces title and author of an existing book. The id never changes.
func (s *Service) Update(ctx context.Context, id int64, title, author string) (Book, error) {
	b := Book{
		ID:     id,
		Title:  title,
		Author: author,
	}
	err := s.Repo.Update(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("updating book: %w", err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	exists, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking book: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	err = s.Repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}
