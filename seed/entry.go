package seed

import (
	"fmt"
	"strings"
)

/* Entry is a book fixture waiting to be inserted
 * Title is mandatory, author may be left blank
 */
type Entry struct {
	Title  string
	Author string
}

// Validate checks if the entry can be stored
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}
