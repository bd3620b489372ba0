package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sudovinay01/Antigravity-TODO-app/internal/tasks"
)

// inputMode says what the text input is being used for.
type inputMode int

const (
	inputNone inputMode = iota
	inputAdd
	inputSearch
)

var statusCycle = []tasks.StatusFilter{tasks.StatusAll, tasks.StatusActive, tasks.StatusCompleted}

// Model is the root bubbletea model for the task list TUI.
type Model struct {
	store  *tasks.Store
	locale string

	items  []tasks.Task
	cursor int
	status tasks.StatusFilter
	search string

	input  textinput.Model
	mode   inputMode
	flash  string
	width  int
	height int
}

// NewModel creates the root model backed by a task store.
func NewModel(store *tasks.Store, locale string) Model {
	ti := textinput.New()
	ti.Placeholder = "task text"
	ti.CharLimit = 200

	m := Model{
		store:  store,
		locale: locale,
		status: tasks.StatusAll,
		input:  ti,
	}
	m.reload()
	return m
}

// Run starts the bubbletea program.
func Run(store *tasks.Store, locale string) error {
	_, err := tea.NewProgram(NewModel(store, locale), tea.WithAltScreen()).Run()
	return err
}

// reload re-derives the visible list from the store.
func (m *Model) reload() {
	m.items = tasks.View(m.store.Active(), tasks.ViewSpec{
		Status:   m.status,
		Category: tasks.CategoryAll,
		Search:   m.search,
		Sort:     tasks.SortCreated,
		Locale:   m.locale,
	})
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == inputSearch {
			m.search = ""
			m.reload()
		}
		m.mode = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		switch m.mode {
		case inputAdd:
			if value != "" {
				if _, err := m.store.Create(tasks.Draft{Text: value}); err != nil {
					m.flash = err.Error()
				} else {
					m.flash = "added"
				}
			}
		case inputSearch:
			m.search = value
		}
		m.mode = inputNone
		m.input.Blur()
		m.input.SetValue("")
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputSearch {
		m.search = m.input.Value()
		m.reload()
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "a":
		m.mode = inputAdd
		m.input.Placeholder = "task text"
		m.input.Focus()
		return m, textinput.Blink

	case "/":
		m.mode = inputSearch
		m.input.Placeholder = "search"
		m.input.SetValue(m.search)
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		for i, st := range statusCycle {
			if st == m.status {
				m.status = statusCycle[(i+1)%len(statusCycle)]
				break
			}
		}
		m.reload()

	case " ", "enter":
		if t, ok := m.current(); ok {
			if _, err := m.store.ToggleComplete(t.ID); err != nil {
				m.flash = err.Error()
			} else {
				m.flash = ""
			}
			m.reload()
		}

	case "d":
		if t, ok := m.current(); ok {
			if _, _, err := m.store.SoftDelete(t.ID); err != nil {
				m.flash = err.Error()
			} else {
				m.flash = "moved to trash (u to undo)"
			}
			m.reload()
		}

	case "u":
		if _, err := m.store.Undo(); err != nil {
			m.flash = err.Error()
		} else {
			m.flash = "restored"
		}
		m.reload()

	case "e":
		if t, ok := m.current(); ok {
			if _, err := m.store.Archive(t.ID); err != nil {
				m.flash = err.Error()
			} else {
				m.flash = "archived"
			}
			m.reload()
		}
	}
	return m, nil
}

func (m Model) current() (tasks.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return tasks.Task{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Antigravity"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(MutedStyle.Render("  nothing here"))
		b.WriteString("\n")
	}

	for i, t := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = CursorStyle.Render("> ")
		}

		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		line := fmt.Sprintf("%s %s", check, t.Text)
		if t.DueDate != "" {
			line += MutedStyle.Render(" due " + t.DueDate)
		}
		if len(t.Subtasks) > 0 {
			done := 0
			for _, st := range t.Subtasks {
				if st.Completed {
					done++
				}
			}
			line += MutedStyle.Render(fmt.Sprintf(" (%d/%d)", done, len(t.Subtasks)))
		}

		if t.Completed {
			line = DoneStyle.Render(line)
		} else {
			line = priorityStyle(string(t.Priority)).Render(line)
		}

		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	if m.mode != inputNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	remaining, _, trashed := m.store.Counts()
	status := fmt.Sprintf("%s | %d remaining | %d trashed", m.status, remaining, trashed)
	if m.search != "" {
		status += " | search: " + m.search
	}
	if m.flash != "" {
		status += " | " + m.flash
	}
	b.WriteString(StatusBarStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("a add  space toggle  d delete  u undo  e archive  / search  tab filter  q quit"))

	return b.String()
}
