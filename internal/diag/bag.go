package diag

import (
	"cmp"
	"slices"
)

type Bag struct {
	items         []Diagnostic
	max           int
	dropped       int
	droppedErrors int
}

// NewBag creates a bag that keeps at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		if d.Severity >= SevError {
			b.droppedErrors++
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Dropped возвращает число диагностик, отброшенных из-за лимита.
func (b *Bag) Dropped() int {
	return b.dropped
}

// DroppedErrors returns how many of the dropped diagnostics were errors.
func (b *Bag) DroppedErrors() int {
	return b.droppedErrors
}

// AddDropped records diagnostics that were dropped elsewhere, e.g. before a
// parse result was cached. errs is clamped to n.
func (b *Bag) AddDropped(n, errs int) {
	if n <= 0 {
		return
	}
	b.dropped += n
	b.droppedErrors += max(0, min(errs, n))
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return b.droppedErrors > 0
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the stored diagnostics. The slice aliases the bag; callers
// must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Strings renders every diagnostic in "<loc>: <message>" form, in bag order.
func (b *Bag) Strings() []string {
	out := make([]string, 0, len(b.items))
	for _, d := range b.items {
		out = append(out, d.String())
	}
	return out
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
	b.droppedErrors += other.droppedErrors
}

// Sort orders diagnostics by location, then errors before warnings, then
// by code. Equal entries keep their relative order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		switch {
		case x.Primary.Less(y.Primary):
			return -1
		case y.Primary.Less(x.Primary):
			return 1
		}
		return cmp.Or(
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
