package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNormalizes(t *testing.T) {
	p := New(0, -5, 10)
	assert.Equal(t, Params{Page: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = New(3, 20, 10)
	assert.Equal(t, 40, p.Offset())
}

func TestParse(t *testing.T) {
	assert.Equal(t, Params{Page: 2, Limit: 5}, Parse("2", "5", 10))
	assert.Equal(t, Params{Page: 1, Limit: 10}, Parse("abc", "", 10))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
}

func TestMeta(t *testing.T) {
	meta := New(2, 10, 10).Meta(25)
	assert.Equal(t, Page{CurrentPage: 2, TotalPages: 3, Limit: 10}, meta)
}
