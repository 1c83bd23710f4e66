package service

import (
	"sync"
	"time"

	"github.com/kushiservices/admin-backend/internal/models"
)

// View holds one list page's state: the fetched record set, the current
// filter criteria, and the memoized output of each filter stage. Changing
// one criterion invalidates only that stage and the ones after it; page
// navigation invalidates nothing.
type View struct {
	mu       sync.Mutex
	records  []models.Booking
	criteria Criteria
	page     int
	pageSize int

	afterStatus []models.Booking
	afterDate   []models.Booking
	afterSearch []models.Booking
	dirtyStatus bool
	dirtyDate   bool
	dirtySearch bool

	recomputes map[string]int

	now func() time.Time
}

func NewView(pageSize int) *View {
	return &View{
		page:       1,
		pageSize:   pageSize,
		recomputes: map[string]int{},
		now:        time.Now,
	}
}

// SetRecords replaces the backing set, e.g. after a refetch. All stages
// are invalidated; the current page is kept and clamped on read.
func (v *View) SetRecords(records []models.Booking) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = records
	v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
}

// Empty reports whether the view has never been loaded.
func (v *View) Empty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.records == nil
}

// SetCriteria diffs the incoming criteria against the current ones and
// invalidates from the first changed stage onward. Any change resets the
// page to 1.
func (v *View) SetCriteria(c Criteria) {
	v.mu.Lock()
	defer v.mu.Unlock()

	changed := false
	if c.Status != v.criteria.Status {
		v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
		changed = true
	} else if c.Date != v.criteria.Date {
		v.dirtyDate, v.dirtySearch = true, true
		changed = true
	} else if c.Search != v.criteria.Search {
		v.dirtySearch = true
		changed = true
	}
	if changed {
		v.criteria = c
		v.page = 1
	}
}

// SetPage moves to a page without touching the filter caches.
func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page >= 1 {
		v.page = page
	}
}

// Page recomputes whatever stages are stale and returns the current
// window. The stored page number is updated to the clamped value.
func (v *View) Page() Page[models.Booking] {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	p := Paginate(v.afterSearch, v.page, v.pageSize)
	v.page = p.Number
	return p
}

// Visible returns the fully filtered set, unpaginated. Exports use it.
func (v *View) Visible() []models.Booking {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	out := make([]models.Booking, len(v.afterSearch))
	copy(out, v.afterSearch)
	return out
}

// Get looks a record up by id in the backing set, filtered or not.
func (v *View) Get(id int) (models.Booking, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, b := range v.records {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

// Update replaces a record in the backing set after a confirmed upstream
// write. Stages are invalidated so the change shows on the next read.
func (v *View) Update(b models.Booking) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.records {
		if v.records[i].ID == b.ID {
			v.records[i] = b
			v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
			return
		}
	}
}

// Upsert replaces a record or, when absent, appends it. Used when an
// inspection graduates into the booking list.
func (v *View) Upsert(b models.Booking) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.records {
		if v.records[i].ID == b.ID {
			v.records[i] = b
			v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
			return
		}
	}
	v.records = append(v.records, b)
	v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
}

// Remove drops a record from the backing set, used when an inspection
// graduates into a regular booking.
func (v *View) Remove(id int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.records {
		if v.records[i].ID == id {
			v.records = append(v.records[:i], v.records[i+1:]...)
			v.dirtyStatus, v.dirtyDate, v.dirtySearch = true, true, true
			return true
		}
	}
	return false
}

// Stages exposes the retained per-stage outputs, for the debug endpoint.
func (v *View) Stages() []FilterStage {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return []FilterStage{
		{Name: "status", Records: v.afterStatus},
		{Name: "date", Records: v.afterDate},
		{Name: "search", Records: v.afterSearch},
	}
}

// Recomputes reports how many times each stage has been recomputed.
func (v *View) Recomputes() map[string]int {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]int, len(v.recomputes))
	for k, n := range v.recomputes {
		out[k] = n
	}
	return out
}

// refresh recomputes dirty stages in pipeline order. Callers must hold mu.
func (v *View) refresh() {
	if v.dirtyStatus {
		v.afterStatus = FilterByStatus(v.records, v.criteria.Status)
		v.recomputes["status"]++
		v.dirtyStatus = false
	}
	if v.dirtyDate {
		v.afterDate = FilterByDate(v.afterStatus, v.criteria.Date, v.now())
		v.recomputes["date"]++
		v.dirtyDate = false
	}
	if v.dirtySearch {
		v.afterSearch = FilterBySearch(v.afterDate, v.criteria.Search)
		v.recomputes["search"]++
		v.dirtySearch = false
	}
}
