package diag

import (
	"fmt"
	"sort"
)

// Bag collects diagnostics from one file up to a limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag; max <= 0 means unlimited.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll adds as many of ds as the limit allows.
func (b *Bag) AddAll(ds []Diagnostic) {
	for _, d := range ds {
		if !b.Add(d) {
			return
		}
	}
}

// HasErrors возвращает true, если есть хотя бы одна ошибка
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity == SevError {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics by primary span, then severity. Diagnostics
// without a primary label go last.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		li, oki := b.items[i].PrimaryLabel()
		lj, okj := b.items[j].PrimaryLabel()
		if oki != okj {
			return oki
		}
		if li.Span.Start != lj.Span.Start {
			return li.Span.Start < lj.Span.Start
		}
		if li.Span.End != lj.Span.End {
			return li.Span.End < lj.Span.End
		}
		return b.items[i].Severity < b.items[j].Severity
	})
}

// простая дедупликация (по Message+Primary)
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		l, _ := d.PrimaryLabel()
		key := fmt.Sprintf("%s@%s", d.Message, l.Span)
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
