package todos

import "github.com/pkg/errors"

var ErrNotFound = errors.New("todo not found")

// Repo stores todos per owner on the API side.
type Repo interface {
	// List returns the owner's todos ordered by position, filtered by a case
	// insensitive search on title and description when search is not empty.
	List(ownerID int, search string) ([]Todo, error)
	Get(ownerID, id int) (Todo, error)
	// Insert assigns ID and appends at the end when Position is 0.
	Insert(ownerID int, t Todo) (Todo, error)
	Update(ownerID int, t Todo) (Todo, error)
	Delete(ownerID, id int) error
}
