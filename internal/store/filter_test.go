package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListOptionsNormalized(t *testing.T) {
	n := ListOptions{}.normalized()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, 10, n.Limit)

	n = ListOptions{Page: -3, Limit: 0}.normalized()
	assert.Equal(t, 1, n.Page)
	assert.Equal(t, 10, n.Limit)

	n = ListOptions{Page: 4, Limit: 25}.normalized()
	assert.Equal(t, 4, n.Page)
	assert.Equal(t, 25, n.Limit)
}

func TestListOptionsOffset(t *testing.T) {
	assert.Equal(t, 0, ListOptions{}.offset())
	assert.Equal(t, 0, ListOptions{Page: 1, Limit: 10}.offset())
	assert.Equal(t, 30, ListOptions{Page: 4, Limit: 10}.offset())
	assert.Equal(t, 50, ListOptions{Page: 3, Limit: 25}.offset())
}

func TestOrderClause(t *testing.T) {
	opts := ListOptions{SortBy: "dueDate", SortOrder: "asc"}
	assert.Equal(t, "due_date ASC", opts.orderClause(taskSortColumns))

	opts = ListOptions{SortBy: "dueDate"}
	assert.Equal(t, "due_date DESC", opts.orderClause(taskSortColumns))

	// Unknown sort fields must not reach the query verbatim.
	opts = ListOptions{SortBy: "password; DROP TABLE tasks"}
	assert.Equal(t, "created_at DESC", opts.orderClause(taskSortColumns))

	opts = ListOptions{}
	assert.Equal(t, "created_at DESC", opts.orderClause(projectSortColumns))

	opts = ListOptions{SortBy: "email", SortOrder: "asc"}
	assert.Equal(t, "email ASC", opts.orderClause(userSortColumns))
}

func TestNewPagination(t *testing.T) {
	p := newPagination(0, ListOptions{})
	assert.Equal(t, int64(0), p.Total)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.TotalPages)

	p = newPagination(25, ListOptions{Page: 2, Limit: 10})
	assert.Equal(t, 3, p.TotalPages)

	p = newPagination(30, ListOptions{Page: 1, Limit: 10})
	assert.Equal(t, 3, p.TotalPages)

	p = newPagination(1, ListOptions{Limit: 50})
	assert.Equal(t, 1, p.TotalPages)
}
