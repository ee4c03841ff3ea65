package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/book/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/*
* Este exemplo mostra um teste usando mocks para simular o comportamento do serviço de livros.
* Uma alternativa válida é criarmos testes de integração, onde o repositório real é usado. Para isso uma ferramenta
* bem útil é o TestContainers: https://mfbmina.dev/posts/testcontainers/
 */

func serve(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, target, body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := Handlers(context.Background(), mocks.NewUseCase(t), Options{})
	w := serve(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestMetricsNotMountedWithoutExporter(t *testing.T) {
	h := Handlers(context.Background(), mocks.NewUseCase(t), Options{})
	w := serve(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAllBooks(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		req := book.PageRequest{Number: 0, Size: 10, Sort: book.Unsorted}
		p := book.NewPage([]book.Book{
			{ID: 1, Title: "Title 1", Author: "Author 1"},
			{ID: 2, Title: "Title 2", Author: "Author 2"},
		}, req, 2)
		s.On("List", mock.Anything, req).Return(p, nil)
		h := Handlers(context.Background(), s, Options{})

		w := serve(t, h, http.MethodGet, "/getAllBooks", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var result pageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Len(t, result.Content, 2)
		assert.Equal(t, 1, result.TotalPages)
		assert.Equal(t, int64(2), result.TotalElements)
		assert.Equal(t, 0, result.CurrentPage)
		assert.Equal(t, 10, result.PageSize)
	})
	t.Run("page, size and sort", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		req := book.PageRequest{Number: 1, Size: 2, Sort: book.Descending}
		p := book.NewPage([]book.Book{{ID: 3, Title: "Title 3", Author: "Author 3"}}, req, 3)
		s.On("List", mock.Anything, req).Return(p, nil)
		h := Handlers(context.Background(), s, Options{})

		w := serve(t, h, http.MethodGet, "/getAllBooks?page=1&size=2&sort=DESC", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		var result pageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 2, result.TotalPages)
		assert.Equal(t, int64(3), result.TotalElements)
		assert.Equal(t, []bookResponse{{ID: 3, Title: "Title 3", Author: "Author 3"}}, result.Content)
	})
	t.Run("empty store", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		req := book.PageRequest{Number: 0, Size: 10}
		s.On("List", mock.Anything, req).Return(book.NewPage(nil, req, 0), nil)
		h := Handlers(context.Background(), s, Options{})

		w := serve(t, h, http.MethodGet, "/getAllBooks", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"content":[],"totalPages":0,"totalElements":0,"currentPage":0,"pageSize":10}`, w.Body.String())
	})
	t.Run("non numeric page", func(t *testing.T) {
		h := Handlers(context.Background(), mocks.NewUseCase(t), Options{})
		w := serve(t, h, http.MethodGet, "/getAllBooks?page=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("invalid size", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		req := book.PageRequest{Number: 0, Size: 0}
		s.On("List", mock.Anything, req).Return(book.Page{}, book.ErrInvalidPage)
		h := Handlers(context.Background(), s, Options{})
		w := serve(t, h, http.MethodGet, "/getAllBooks?size=0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("page past the addressable range", func(t *testing.T) {
		h := Handlers(context.Background(), book.NewService(mocks.NewRepository(t)), Options{})
		w := serve(t, h, http.MethodGet, "/getAllBooks?page=922337203685477581&size=10", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("store error", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything, mock.Anything).Return(book.Page{}, errors.New("connection refused"))
		h := Handlers(context.Background(), s, Options{})
		w := serve(t, h, http.MethodGet, "/getAllBooks", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetBookByID(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Get", mock.Anything, int64(1)).Return(book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}, nil)
	s.On("Get", mock.Anything, int64(99)).Return(book.Book{}, book.ErrNotFound)
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodGet, "/getBookById/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var result bookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, bookResponse{ID: 1, Title: "Dune", Author: "Frank Herbert"}, result)

	w = serve(t, h, http.MethodGet, "/getBookById/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodGet, "/getBookById/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddBook(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Create", mock.Anything, "Dune", "Frank Herbert").Return(book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}, nil)
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodPost, "/addBook", strings.NewReader(`{"title":"Dune","author":"Frank Herbert"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune","author":"Frank Herbert"}`, w.Body.String())

	w = serve(t, h, http.MethodPost, "/addBook", strings.NewReader(`{"title":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBookByID(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Update", mock.Anything, int64(1), "Dune Messiah", "Frank Herbert").
		Return(book.Book{ID: 1, Title: "Dune Messiah", Author: "Frank Herbert"}, nil)
	s.On("Update", mock.Anything, int64(7), "X", "Y").Return(book.Book{}, book.ErrNotFound)
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodPost, "/updateBookById/1", strings.NewReader(`{"title":"Dune Messiah","author":"Frank Herbert"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"title":"Dune Messiah","author":"Frank Herbert"}`, w.Body.String())

	w = serve(t, h, http.MethodPost, "/updateBookById/7", strings.NewReader(`{"title":"X","author":"Y"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(t, h, http.MethodPost, "/updateBookById/1", strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteBookByID(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Delete", mock.Anything, int64(1)).Return(nil)
	s.On("Delete", mock.Anything, int64(2)).Return(book.ErrNotFound)
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodDelete, "/deleteBookById/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(t, h, http.MethodDelete, "/deleteBookById/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBooksByTitle(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("Search", mock.Anything, "dun").Return([]book.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert"}}, nil)
	s.On("Search", mock.Anything, "zzz").Return([]book.Book{}, nil)
	s.On("Search", mock.Anything, "boom").Return(nil, errors.New("boom"))
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodGet, "/getBooksByTitle?title=dun", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"title":"Dune","author":"Frank Herbert"}]`, w.Body.String())

	w = serve(t, h, http.MethodGet, "/getBooksByTitle?title=zzz", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = serve(t, h, http.MethodGet, "/getBooksByTitle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, h, http.MethodGet, "/getBooksByTitle?title=boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// O fluxo abaixo segue o exemplo do Dune de ponta a ponta, com o serviço mockado
func TestDuneFlow(t *testing.T) {
	s := mocks.NewUseCase(t)
	dune := book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}
	s.On("Create", mock.Anything, "Dune", "Frank Herbert").Return(dune, nil).Once()
	s.On("Get", mock.Anything, int64(1)).Return(dune, nil).Once()
	s.On("Search", mock.Anything, "un").Return([]book.Book{dune}, nil).Once()
	s.On("Delete", mock.Anything, int64(1)).Return(nil).Once()
	s.On("Get", mock.Anything, int64(1)).Return(book.Book{}, book.ErrNotFound).Once()
	h := Handlers(context.Background(), s, Options{})

	w := serve(t, h, http.MethodPost, "/addBook", strings.NewReader(`{"title":"Dune","author":"Frank Herbert"}`))
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(t, h, http.MethodGet, "/getBookById/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(t, h, http.MethodGet, "/getBooksByTitle?title=un", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = serve(t, h, http.MethodDelete, "/deleteBookById/1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = serve(t, h, http.MethodGet, "/getBookById/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postMultipart(t *testing.T, h http.Handler, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, "/importCsv", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}
