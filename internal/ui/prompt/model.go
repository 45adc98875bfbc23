package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/noelruault/ecs-connect/internal/ui/shared"
)

const (
	defaultPageSize = 10
	maxLabelWidth   = 72
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Select key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k", "ctrl+p")),
	Down:   key.NewBinding(key.WithKeys("down", "j", "ctrl+n", "tab")),
	Home:   key.NewBinding(key.WithKeys("home", "g")),
	End:    key.NewBinding(key.WithKeys("end", "G")),
	Select: key.NewBinding(key.WithKeys("enter")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
}

type model struct {
	question    Question
	cursor      int
	window      shared.Window
	done        bool
	interrupted bool
	answer      Answer
}

func newModel(q Question, pageSize int) model {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return model{
		question: q,
		window:   shared.Window{Height: pageSize},
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Leave room for the question line, separator and hint.
		if h := msg.Height - 4; h > 0 && h < m.window.Height {
			m.window.Height = h
		}
		m.window.Follow(m.cursor, m.question.rows())
		return m, nil

	case tea.KeyMsg:
		rows := m.question.rows()
		switch {
		case key.Matches(msg, keys.Quit):
			m.interrupted = true
			return m, tea.Quit
		case key.Matches(msg, keys.Select):
			if rows == 0 {
				return m, nil
			}
			m.done = true
			m.answer = m.question.answer(m.cursor)
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < rows-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Home):
			m.cursor = 0
		case key.Matches(msg, keys.End):
			if rows > 0 {
				m.cursor = rows - 1
			}
		}
		m.window.Follow(m.cursor, rows)
	}
	return m, nil
}

func (m model) View() string {
	head := questionMarkStyle.Render("?") + " " + messageStyle.Render(m.question.Message)

	if m.interrupted {
		return head + "\n"
	}
	if m.done {
		return head + " " + answerStyle.Render(m.question.label(m.cursor)) + "\n"
	}

	var b strings.Builder
	b.WriteString(head + "\n")

	rows := m.question.rows()
	start, end := m.window.Range(rows)
	for i := start; i < end; i++ {
		isSentinel := i >= len(m.question.Options)
		if isSentinel {
			b.WriteString("  " + separatorStyle.Render(strings.Repeat("─", 15)) + "\n")
		}

		label := shared.Truncate(m.question.label(i), maxLabelWidth)
		switch {
		case i == m.cursor:
			b.WriteString(selectedStyle.Render("❯ "+label) + "\n")
		case isSentinel:
			b.WriteString("  " + sentinelStyle.Render(label) + "\n")
		default:
			b.WriteString("  " + normalStyle.Render(label) + "\n")
		}
	}

	if end-start < rows {
		b.WriteString(hintStyle.Render("(move up and down to reveal more choices)") + "\n")
	}
	return b.String()
}
