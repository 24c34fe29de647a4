package listing

import (
	"strings"
	"sync"
)

// Config describes one screen's list behaviour.
type Config[T any] struct {
	PageSize int
	// ID identifies items for Remove.
	ID func(T) int64
	// FilterField is matched exactly against the active filter value.
	FilterField func(T) string
	// SearchFields are scanned by the free-text query.
	SearchFields []func(T) string
	Columns      []Column[T]
}

// SortState is the active sort column and direction.
type SortState struct {
	Key       string
	Direction Direction
}

// Controller holds a snapshot fetched once per mount and derives the
// visible list from it: filter, then search, then sort, then page.
type Controller[T any] struct {
	mu      sync.RWMutex
	cfg     Config[T]
	columns map[string]Column[T]
	source  []T
	view    []T
	filter  string
	query   string
	sort    SortState
	page    int
}

func NewController[T any](cfg Config[T]) *Controller[T] {
	c := &Controller[T]{cfg: cfg, columns: make(map[string]Column[T]), page: 1}
	for _, col := range cfg.Columns {
		c.columns[col.Name] = col
	}
	c.view = []T{}
	return c
}

// Load replaces the snapshot, keeping filter, query and sort.
func (c *Controller[T]) Load(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = append([]T(nil), items...)
	c.page = 1
	c.refresh()
}

// SetFilter applies an exact-match filter; "" clears it.
func (c *Controller[T]) SetFilter(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = value
	c.page = 1
	c.refresh()
}

// SetQuery applies a case-insensitive search; "" clears it.
func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = strings.ToLower(strings.TrimSpace(q))
	c.page = 1
	c.refresh()
}

// Sort is a click on a column header: ascending first, descending when the
// same column is clicked again while ascending. Unknown keys are ignored.
func (c *Controller[T]) Sort(key string) SortState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.columns[key]; !ok {
		return c.sort
	}
	dir := Asc
	if c.sort.Key == key && c.sort.Direction == Asc {
		dir = Desc
	}
	c.sort = SortState{Key: key, Direction: dir}
	c.refresh()
	return c.sort
}

// SortDir sets the sort explicitly.
func (c *Controller[T]) SortDir(key string, dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.columns[key]; !ok {
		return
	}
	c.sort = SortState{Key: key, Direction: dir}
	c.refresh()
}

// Remove drops the item with id from both the snapshot and the view.
func (c *Controller[T]) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg.ID == nil {
		return
	}
	keep := func(item T) bool { return c.cfg.ID(item) != id }
	c.source = Filter(c.source, keep)
	c.view = Filter(c.view, keep)
	if pages := PageCount(len(c.view), c.cfg.PageSize); c.page > pages && pages > 0 {
		c.page = pages
	}
}

// SetPage moves to page n, clamped to the available pages.
func (c *Controller[T]) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pages := PageCount(len(c.view), c.cfg.PageSize); n > pages {
		n = pages
	}
	if n < 1 {
		n = 1
	}
	c.page = n
}

// Page returns the current page of the view.
func (c *Controller[T]) Page() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Paginate(c.view, c.cfg.PageSize, c.page)
}

func (c *Controller[T]) PageNumber() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Controller[T]) Pages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return PageCount(len(c.view), c.cfg.PageSize)
}

// View returns a copy of the filtered and sorted list.
func (c *Controller[T]) View() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T{}, c.view...)
}

// Source returns a copy of the unfiltered snapshot.
func (c *Controller[T]) Source() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T{}, c.source...)
}

func (c *Controller[T]) SortState() SortState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sort
}

func (c *Controller[T]) refresh() {
	list := c.source
	if c.filter != "" && c.cfg.FilterField != nil {
		list = Filter(list, func(item T) bool { return c.cfg.FilterField(item) == c.filter })
	}
	if c.query != "" {
		list = Filter(list, c.matches)
	}
	if col, ok := c.columns[c.sort.Key]; ok {
		list = SortBy(list, col, c.sort.Direction)
	} else {
		list = append([]T{}, list...)
	}
	c.view = list
}

func (c *Controller[T]) matches(item T) bool {
	for _, field := range c.cfg.SearchFields {
		if Contains(field(item), c.query) {
			return true
		}
	}
	return false
}
