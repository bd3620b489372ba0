package tasks

import (
	"testing"
	"time"
)

func sampleList() []Task {
	return []Task{
		{ID: "task_1", Text: "buy milk", Category: "errands", Priority: PriorityLow, DueDate: "2026-09-03"},
		{ID: "task_2", Text: "Write report", Category: "work", Priority: PriorityHigh, Completed: true},
		{ID: "task_3", Text: "call plumber", Category: "home", Priority: PriorityMedium, DueDate: "2026-09-01"},
		{ID: "task_4", Text: "archive emails", Category: "work", Priority: PriorityLow},
	}
}

func viewIDs(list []Task) []string {
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}
	return ids
}

func TestView_StatusFilter(t *testing.T) {
	list := sampleList()

	if got := View(list, ViewSpec{Status: StatusAll}); len(got) != 4 {
		t.Errorf("all: %d tasks, want 4", len(got))
	}
	if got := View(list, ViewSpec{Status: StatusActive}); len(got) != 3 {
		t.Errorf("active: %d tasks, want 3", len(got))
	}
	got := View(list, ViewSpec{Status: StatusCompleted})
	if len(got) != 1 || got[0].ID != "task_2" {
		t.Errorf("completed: %v, want [task_2]", viewIDs(got))
	}
}

func TestView_CategoryFilter(t *testing.T) {
	list := sampleList()

	got := View(list, ViewSpec{Status: StatusAll, Category: "work"})
	if len(got) != 2 {
		t.Fatalf("work: %d tasks, want 2", len(got))
	}
	if got := View(list, ViewSpec{Status: StatusAll, Category: CategoryAll}); len(got) != 4 {
		t.Errorf("category %q must match everything", CategoryAll)
	}
	if got := View(list, ViewSpec{Status: StatusAll, Category: "nope"}); len(got) != 0 {
		t.Errorf("unknown category: %d tasks, want 0", len(got))
	}
}

func TestView_Search(t *testing.T) {
	list := sampleList()

	// Case-insensitive match on text.
	got := View(list, ViewSpec{Status: StatusAll, Search: "WRITE"})
	if len(got) != 1 || got[0].ID != "task_2" {
		t.Errorf("text search: %v", viewIDs(got))
	}

	// Matches the category too.
	got = View(list, ViewSpec{Status: StatusAll, Search: "home"})
	if len(got) != 1 || got[0].ID != "task_3" {
		t.Errorf("category search: %v", viewIDs(got))
	}

	// Whitespace-only query means no filter.
	if got := View(list, ViewSpec{Status: StatusAll, Search: "  "}); len(got) != 4 {
		t.Errorf("blank search: %d tasks, want 4", len(got))
	}
}

func TestView_SortDueDate(t *testing.T) {
	got := View(sampleList(), ViewSpec{Status: StatusAll, Sort: SortDueDate})
	ids := viewIDs(got)

	if ids[0] != "task_3" || ids[1] != "task_1" {
		t.Errorf("dated order = %v, want earliest first", ids)
	}
	// Undated tasks come last, keeping their relative order.
	if ids[2] != "task_2" || ids[3] != "task_4" {
		t.Errorf("undated tail = %v", ids[2:])
	}
}

func TestView_SortPriority(t *testing.T) {
	got := View(sampleList(), ViewSpec{Status: StatusAll, Sort: SortPriority})
	ids := viewIDs(got)

	want := []string{"task_2", "task_3", "task_1", "task_4"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("priority order = %v, want %v", ids, want)
		}
	}
}

func TestView_SortAlpha(t *testing.T) {
	got := View(sampleList(), ViewSpec{Status: StatusAll, Sort: SortAlpha})
	ids := viewIDs(got)

	// Collation is case-insensitive, so "Write report" sorts by "w".
	want := []string{"task_4", "task_1", "task_3", "task_2"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("alpha order = %v, want %v", ids, want)
		}
	}
}

func TestView_Pure(t *testing.T) {
	list := sampleList()
	before := viewIDs(list)

	View(list, ViewSpec{Status: StatusActive, Sort: SortPriority, Search: "a"})

	after := viewIDs(list)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("View must not reorder its input")
		}
	}
}

func TestView_StagesCompose(t *testing.T) {
	now := time.Now()
	list := append(sampleList(), Task{
		ID: "task_5", Text: "write tests", Category: "work",
		Priority: PriorityHigh, CreatedAt: now,
	})

	got := View(list, ViewSpec{
		Status:   StatusActive,
		Category: "work",
		Search:   "write",
		Sort:     SortPriority,
	})
	if len(got) != 1 || got[0].ID != "task_5" {
		t.Errorf("composed view = %v, want [task_5]", viewIDs(got))
	}
}
