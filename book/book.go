package book

/* Sobre pacotes
 *
 * Os pacotes devem fornecer algo e não conter algo (ex: modelos, utilitários, auxiliares).
 * Isso (pacotes que contém algo) causa problemas de dependências, pois quando você precisa alterar algo,
 * precisa alterar muitos lugares
 *
 */

/*Sem tags, representa um livro em relação ao negócio */
// Book is the only entity of the shelf. ID is assigned by the store and never changes.
type Book struct {
	ID     int64
	Title  string
	Author string
}
