package book

import "strings"

/* Criar tipos de dados específicos para a aplicação
* Usar o compilador a seu favor, tentar encontrar erros em tempo de compilação e não de execução.
 */

// SortOrder defines how a page of books is ordered by id
type SortOrder int

const (
	Unsorted SortOrder = iota
	Ascending
	Descending
)

func (s SortOrder) String() string {
	switch s {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// NewSortOrder parses the sort query value. Anything other than asc/desc leaves the order to the store.
func NewSortOrder(s string) SortOrder {
	switch strings.ToLower(s) {
	case "asc":
		return Ascending
	case "desc":
		return Descending
	}
	return Unsorted
}
