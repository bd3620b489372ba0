package tasks

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusFilter selects tasks by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// SortKey selects the ordering of a view.
type SortKey string

const (
	SortCreated  SortKey = "created"
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
	SortAlpha    SortKey = "alpha"
)

// CategoryAll matches every category, including none.
const CategoryAll = "all"

// ViewSpec describes one projection of the active list: a status filter, a
// category filter, a search query, and a sort key.
type ViewSpec struct {
	Status   StatusFilter
	Category string // CategoryAll or an exact category
	Search   string
	Sort     SortKey
	Locale   string // BCP 47 tag for alpha sort; empty means English
}

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// View filters and sorts tasks according to spec. It is a pure function:
// the input slice is never modified and identical inputs produce identical
// output. Stages run in a fixed order: status, category, search, sort.
func View(list []Task, spec ViewSpec) []Task {
	out := make([]Task, 0, len(list))

	query := strings.ToLower(strings.TrimSpace(spec.Search))
	for _, t := range list {
		switch spec.Status {
		case StatusActive:
			if t.Completed {
				continue
			}
		case StatusCompleted:
			if !t.Completed {
				continue
			}
		}
		if spec.Category != "" && spec.Category != CategoryAll && t.Category != spec.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Text), query) &&
			!strings.Contains(strings.ToLower(t.Category), query) {
			continue
		}
		out = append(out, t.Clone())
	}

	sortView(out, spec)
	return out
}

func sortView(list []Task, spec ViewSpec) {
	switch spec.Sort {
	case SortDueDate:
		sort.SliceStable(list, func(i, j int) bool {
			di, iok := parseDue(list[i].DueDate)
			dj, jok := parseDue(list[j].DueDate)
			if !iok || !jok {
				// Undated tasks sort after all dated ones, tied
				// among themselves.
				return iok
			}
			return di.Before(dj)
		})
	case SortPriority:
		sort.SliceStable(list, func(i, j int) bool {
			return priorityRank[list[i].Priority] < priorityRank[list[j].Priority]
		})
	case SortAlpha:
		cl := collatorFor(spec.Locale)
		sort.SliceStable(list, func(i, j int) bool {
			return cl.CompareString(list[i].Text, list[j].Text) < 0
		})
	default:
		// SortCreated: creation prepends, so the list is already
		// newest-first.
	}
}

func parseDue(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func collatorFor(locale string) *collate.Collator {
	tag := language.English
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	return collate.New(tag)
}
