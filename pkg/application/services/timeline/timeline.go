package timeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/lineplan/pkg/domain/entities"
	"github.com/vsinha/lineplan/pkg/infrastructure/metrics"
)

// lane holds one line's items. planned is ordered by StartAt and never overlaps.
type lane struct {
	mu      sync.Mutex
	planned []entities.ScheduleItem
	actual  []entities.ScheduleItem
}

func (l *lane) last() *entities.ScheduleItem {
	if len(l.planned) == 0 {
		return nil
	}
	item := l.planned[len(l.planned)-1]
	return &item
}

// Timeline is a per-line arena of schedule items. Each lane has its own lock,
// so writers on different lines never contend.
type Timeline struct {
	mu    sync.RWMutex
	lanes map[entities.LineID]*lane

	// idsMu is only ever taken while holding at most one lane lock
	idsMu sync.Mutex
	ids   map[entities.ScheduleItemID]entities.LineID

	metrics *metrics.Recorder
}

// New creates an empty timeline
func New(m *metrics.Recorder) *Timeline {
	return &Timeline{
		lanes:   make(map[entities.LineID]*lane),
		ids:     make(map[entities.ScheduleItemID]entities.LineID),
		metrics: m,
	}
}

func (t *Timeline) lane(lineID entities.LineID) *lane {
	t.mu.RLock()
	l, ok := t.lanes[lineID]
	t.mu.RUnlock()
	if ok {
		return l
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if l, ok = t.lanes[lineID]; !ok {
		l = &lane{}
		t.lanes[lineID] = l
	}
	return l
}

// Load seeds the timeline from a storage snapshot. Planned items are inserted in
// start order and must not overlap; actual items go to the history.
func (t *Timeline) Load(items []entities.ScheduleItem) error {
	sorted := make([]entities.ScheduleItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})

	for _, item := range sorted {
		var err error
		if item.Kind == entities.Actual {
			err = t.RecordActual(item)
		} else {
			err = t.Insert(item)
		}
		if err != nil {
			return fmt.Errorf("failed to load schedule item %s: %w", item.ID, err)
		}
	}
	return nil
}

// LastItem returns a copy of the chronologically last planned item on the line
func (t *Timeline) LastItem(lineID entities.LineID) (*entities.ScheduleItem, bool) {
	l := t.lane(lineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	last := l.last()
	return last, last != nil
}

// Insert appends a planned item to its line. It rejects an item that starts before
// the line's last planned item ends.
func (t *Timeline) Insert(item entities.ScheduleItem) error {
	l := t.lane(item.LineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	return t.insertLocked(l, item)
}

// AppendAfterLast runs build against the line's current last item and inserts the
// result, holding the line's lock for the whole read-build-insert sequence.
func (t *Timeline) AppendAfterLast(
	lineID entities.LineID,
	build func(last *entities.ScheduleItem) (entities.ScheduleItem, error),
) (*entities.ScheduleItem, error) {
	l := t.lane(lineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	item, err := build(l.last())
	if err != nil {
		return nil, err
	}
	if item.LineID != lineID {
		return nil, fmt.Errorf("built item is for line %s, not %s", item.LineID, lineID)
	}
	if err := t.insertLocked(l, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (t *Timeline) insertLocked(l *lane, item entities.ScheduleItem) error {
	if item.Kind != entities.Planned {
		return fmt.Errorf("only planned items join the timeline, got %s", item.Kind)
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid schedule item %s: %w", item.ID, err)
	}
	if last := l.last(); last != nil && item.StartAt.Before(last.EndAt) {
		return &entities.OverlapViolationError{LineID: item.LineID, StartAt: item.StartAt, LastEndAt: last.EndAt}
	}
	if err := t.claimID(item); err != nil {
		return err
	}

	l.planned = append(l.planned, item)
	t.metrics.SetPlannedItems(string(item.LineID), len(l.planned))
	return nil
}

func (t *Timeline) claimID(item entities.ScheduleItem) error {
	if item.ID == "" {
		return fmt.Errorf("schedule item id cannot be empty")
	}
	t.idsMu.Lock()
	defer t.idsMu.Unlock()
	if _, exists := t.ids[item.ID]; exists {
		return fmt.Errorf("%w: schedule item %s", entities.ErrDuplicateKey, item.ID)
	}
	t.ids[item.ID] = item.LineID
	return nil
}

// RecordActual stores an actual item as display-only history
func (t *Timeline) RecordActual(item entities.ScheduleItem) error {
	if item.Kind != entities.Actual {
		return fmt.Errorf("expected an actual item, got %s", item.Kind)
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid schedule item %s: %w", item.ID, err)
	}

	l := t.lane(item.LineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := t.claimID(item); err != nil {
		return err
	}
	l.actual = append(l.actual, item)
	sort.SliceStable(l.actual, func(i, j int) bool {
		return l.actual[i].StartAt.Before(l.actual[j].StartAt)
	})
	return nil
}

// Items returns a copy of the line's planned items in start order
func (t *Timeline) Items(lineID entities.LineID) []entities.ScheduleItem {
	l := t.lane(lineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]entities.ScheduleItem, len(l.planned))
	copy(items, l.planned)
	return items
}

// Actuals returns a copy of the line's actual history in start order
func (t *Timeline) Actuals(lineID entities.LineID) []entities.ScheduleItem {
	l := t.lane(lineID)
	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]entities.ScheduleItem, len(l.actual))
	copy(items, l.actual)
	return items
}

// Lines returns the ids of lines that hold any item, sorted
func (t *Timeline) Lines() []entities.LineID {
	t.mu.RLock()
	lanes := make(map[entities.LineID]*lane, len(t.lanes))
	for id, l := range t.lanes {
		lanes[id] = l
	}
	t.mu.RUnlock()

	lines := make([]entities.LineID, 0, len(lanes))
	for id, l := range lanes {
		l.mu.Lock()
		n := len(l.planned) + len(l.actual)
		l.mu.Unlock()
		if n > 0 {
			lines = append(lines, id)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	return lines
}
