package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginate_SecondPartialPage(t *testing.T) {
	items, meta := Paginate(seq(15), 2, 10)

	assert.Equal(t, []int{10, 11, 12, 13, 14}, items)
	assert.Equal(t, PaginationMeta{Page: 2, Limit: 10, Total: 15, TotalPages: 2, HasNext: false, HasPrev: true}, meta)
}

func TestPaginate_Defaults(t *testing.T) {
	items, meta := Paginate(seq(25), 0, 0)

	assert.Len(t, items, 10)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 10, meta.Limit)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}

func TestPaginate_Clamping(t *testing.T) {
	_, meta := Paginate(seq(5), -3, 500)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, MaxLimit, meta.Limit)

	_, meta = Paginate(seq(5), 1, -1)
	assert.Equal(t, 1, meta.Limit)
}

func TestPaginate_Empty(t *testing.T) {
	items, meta := Paginate([]int{}, 1, 10)

	assert.Empty(t, items)
	assert.NotNil(t, items)
	assert.Equal(t, PaginationMeta{Page: 1, Limit: 10, Total: 0, TotalPages: 0}, meta)
}

func TestPaginate_PastLastPage(t *testing.T) {
	items, meta := Paginate(seq(15), 7, 10)

	assert.Empty(t, items)
	assert.Equal(t, 15, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestPaginate_HugePageDoesNotOverflow(t *testing.T) {
	items, meta := Paginate(seq(3), int(^uint(0)>>1), 100)
	assert.Empty(t, items)
	assert.Equal(t, 1, meta.TotalPages)
}

func TestPaginate_ConcatenationReproducesSet(t *testing.T) {
	for total := 0; total <= 23; total++ {
		for limit := 1; limit <= 7; limit++ {
			all := seq(total)
			_, meta := Paginate(all, 1, limit)
			require.Equal(t, (total+limit-1)/limit, meta.TotalPages)

			var joined []int
			for page := 1; page <= meta.TotalPages; page++ {
				items, _ := Paginate(all, page, limit)
				joined = append(joined, items...)
			}
			if total == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, all, joined, "total=%d limit=%d", total, limit)
		}
	}
}

func TestPaginate_WindowIsACopy(t *testing.T) {
	all := seq(5)
	items, _ := Paginate(all, 1, 2)
	items[0] = 99
	assert.Equal(t, 0, all[0])
}
