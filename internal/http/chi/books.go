package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/bookshelf/book"
)

/*
* Representa o livro na camada web, por isso ele tem as tags json
 */
type bookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

/*
* Representa o livro na camada web
 */
type bookResponse struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type pageResponse struct {
	Content       []bookResponse `json:"content"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int64          `json:"totalElements"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
}

func newBookResponse(b book.Book) bookResponse {
	return bookResponse{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
	}
}

func newBookResponses(all []book.Book) []bookResponse {
	result := make([]bookResponse, 0, len(all))
	for _, b := range all {
		result = append(result, newBookResponse(b))
	}
	return result
}

func getAllBooks(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := intParam(q.Get("page"), book.DefaultPage)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		size, err := intParam(q.Get("size"), book.DefaultPageSize)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req := book.PageRequest{
			Number: page,
			Size:   size,
			Sort:   book.NewSortOrder(q.Get("sort")),
		}
		p, err := bookService.List(r.Context(), req)
		if errors.Is(err, book.ErrInvalidPage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			serverError(w, r, err, "listing books")
			return
		}
		writeJSON(w, r, http.StatusOK, pageResponse{
			Content:       newBookResponses(p.Books),
			TotalPages:    p.TotalPages,
			TotalElements: p.TotalElements,
			CurrentPage:   p.Number,
			PageSize:      p.Size,
		})
	})
}

func getBookByID(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bookService.Get(r.Context(), id)
		if errors.Is(err, book.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "getting book")
			return
		}
		writeJSON(w, r, http.StatusOK, newBookResponse(b))
	})
}

func addBook(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var br bookRequest
		err := json.NewDecoder(r.Body).Decode(&br)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bookService.Create(r.Context(), br.Title, br.Author)
		if err != nil {
			serverError(w, r, err, "creating book")
			return
		}
		writeJSON(w, r, http.StatusOK, newBookResponse(b))
	})
}

func updateBookByID(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var br bookRequest
		err = json.NewDecoder(r.Body).Decode(&br)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := bookService.Update(r.Context(), id, br.Title, br.Author)
		if errors.Is(err, book.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "updating book")
			return
		}
		writeJSON(w, r, http.StatusOK, newBookResponse(b))
	})
}

func deleteBookByID(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = bookService.Delete(r.Context(), id)
		if errors.Is(err, book.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err != nil {
			serverError(w, r, err, "deleting book")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func getBooksByTitle(bookService book.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		values, ok := r.URL.Query()["title"]
		if !ok {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}
		found, err := bookService.Search(r.Context(), values[0])
		if err != nil {
			serverError(w, r, err, "searching books")
			return
		}
		if len(found) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusOK, newBookResponses(found))
	})
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		oplog := httplog.LogEntry(r.Context())
		oplog.Error().Err(err).Msg("encoding response")
	}
}

// serverError logs err on the request log and answers 500 without leaking details
func serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	oplog := httplog.LogEntry(r.Context())
	oplog.Error().Err(err).Msg(msg)
	w.WriteHeader(http.StatusInternalServerError)
}
