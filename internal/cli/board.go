package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// boardPorts is what the board needs from the progression engine.
type boardPorts interface {
	app.CurrentViewUseCase
	app.ToggleItemUseCase
	app.SkipItemUseCase
}

type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Skip    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle done")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Toggle, k.Skip},
		{k.Refresh, k.Help, k.Quit},
	}
}

type boardRow struct {
	section string
	item    app.ItemView
}

type boardLoadedMsg struct {
	view *app.CurrentView
	err  error
}

type boardMutatedMsg struct {
	verb string
	res  *app.MutationResult
	err  error
}

// boardModel is an interactive checklist over the current view.
type boardModel struct {
	ports     boardPorts
	userID    string
	sessionID string

	keys boardKeyMap
	help help.Model

	view    *app.CurrentView
	rows    []boardRow
	cursor  int
	status  string
	err     error
	loading bool
}

func newBoardModel(ports boardPorts, userID, sessionID string) boardModel {
	return boardModel{
		ports:     ports,
		userID:    userID,
		sessionID: sessionID,
		keys:      newBoardKeyMap(),
		help:      help.New(),
		loading:   true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.load()
}

func (m boardModel) load() tea.Cmd {
	ports, req := m.ports, app.NewViewRequest(m.userID, m.sessionID)
	return func() tea.Msg {
		view, err := ports.GetCurrentView(context.Background(), req)
		return boardLoadedMsg{view: view, err: err}
	}
}

func (m boardModel) mutate(verb string, itemID string) tea.Cmd {
	ports, userID := m.ports, m.userID
	return func() tea.Msg {
		var res *app.MutationResult
		var err error
		switch verb {
		case "skip":
			res, err = ports.SkipItem(context.Background(), userID, itemID)
		default:
			res, err = ports.ToggleItem(context.Background(), userID, itemID)
		}
		return boardMutatedMsg{verb: verb, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.view = msg.view
		m.rows = boardRows(msg.view)
		m.cursor = min(m.cursor, max(len(m.rows)-1, 0))
		return m, nil

	case boardMutatedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = strings.TrimSpace(formatter.FormatMutation(msg.verb, msg.res))
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if row, ok := m.selected(); ok {
				return m, m.mutate("toggle", row.item.ID)
			}
		case key.Matches(msg, m.keys.Skip):
			if row, ok := m.selected(); ok {
				return m, m.mutate("skip", row.item.ID)
			}
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m boardModel) selected() (boardRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return boardRow{}, false
	}
	return m.rows[m.cursor], true
}

var cursorStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)

func (m boardModel) View() string {
	var b strings.Builder
	switch {
	case m.view == nil && m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.view == nil:
		b.WriteString(formatter.Dim("Loading...") + "\n")
	default:
		b.WriteString(formatter.Header(m.view.PhaseLabel) + "\n")
		b.WriteString(formatter.RenderProgress(m.view.ProgressFraction, 24) + "\n")
		section := ""
		for i, row := range m.rows {
			if row.section != section {
				section = row.section
				b.WriteString("\n" + formatter.Bold(section) + "\n")
			}
			prefix := "  "
			if i == m.cursor {
				prefix = cursorStyle.Render("> ")
			}
			b.WriteString(prefix + formatter.ItemLine(row.item) + "\n")
		}
		if len(m.rows) == 0 {
			b.WriteString("\n" + formatter.Dim("Nothing to do right now.") + "\n")
		}
		if m.view.AllCaughtUp {
			b.WriteString("\n" + formatter.StyleGreen.Render("✔ All caught up") + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.err != nil && m.view != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func boardRows(v *app.CurrentView) []boardRow {
	var rows []boardRow
	add := func(section string, items []app.ItemView) {
		for _, item := range items {
			rows = append(rows, boardRow{section: section, item: item})
		}
	}
	add("Required", v.RequiredItems)
	add("Optional", v.OptionalItems)
	add("Carry-over", v.CarryOverItems)
	return rows
}

var errBoardNeedsTTY = errors.New("the board needs an interactive terminal; use `waypoint view` instead")

func newBoardCmd(a *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open an interactive checklist of the current view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := flags.user()
			if err != nil {
				return err
			}
			if !a.interactive() {
				return errBoardNeedsTTY
			}
			p := tea.NewProgram(newBoardModel(a.Progression, userID, flags.sessionID), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running board: %w", err)
			}
			return nil
		},
	}
}
