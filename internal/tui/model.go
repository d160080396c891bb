package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mindpalace/internal/engine"
	"mindpalace/internal/storage"
	"mindpalace/internal/ui"
)

// RunBoard blocks until the dashboard exits.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := newBoardModel(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	player  *storage.Player
	streak  *storage.StreakState
	palaces []engine.PalaceSnapshot
	daily   *engine.DailySnapshot

	expanded map[engine.PalaceKey]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	player  *storage.Player
	streak  *storage.StreakState
	palaces []engine.PalaceSnapshot
	daily   *engine.DailySnapshot
	err     error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:      ctx,
		svc:      svc,
		expanded: map[engine.PalaceKey]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		p, err := m.svc.Profile(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		streak, err := m.svc.Streak(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		palaces, err := m.svc.Palaces(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		daily, err := m.svc.DailyChallenges(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{player: p, streak: streak, palaces: palaces, daily: daily}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.player = msg.player
		m.streak = msg.streak
		m.palaces = msg.palaces
		m.daily = msg.daily
		// Default-expand the palace the player is working through.
		for _, p := range m.palaces {
			if p.Unlocked && !p.Defeated {
				m.expanded[p.Key] = true
				break
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.palaces)-1 {
				m.selected++
			}
			return m, nil
		case "enter", " ":
			if m.selected >= 0 && m.selected < len(m.palaces) {
				key := m.palaces[m.selected].Key
				m.expanded[key] = !m.expanded[key]
			}
			return m, nil
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	// Simple 2-column layout.
	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.player == nil {
		return "Mind Palace — loading…"
	}
	into := engine.PlayerXPIntoLevel(m.player)
	next := engine.PlayerXPForLevel(m.player.Level)
	bar := ui.ProgressBar(into, next, 30)
	streak := 0
	if m.streak != nil {
		streak = m.streak.Current
	}
	return fmt.Sprintf("Mind Palace | Level %d | XP %d %s | %s %d-day streak",
		m.player.Level, m.player.TotalXP, bar, ui.IconFlame, streak)
}

func (m boardModel) renderSidebar() string {
	if m.player == nil {
		return "Stats\n\nLoading…"
	}
	st := m.player.Stats
	lines := []string{"Stats"}
	lines = append(lines, fmt.Sprintf("- 🧠 Knowledge   %d", st.Knowledge))
	lines = append(lines, fmt.Sprintf("- 🛠 Proficiency %d", st.Proficiency))
	lines = append(lines, fmt.Sprintf("- 💪 Guts        %d", st.Guts))
	lines = append(lines, fmt.Sprintf("- 💫 Charm       %d", st.Charm))
	lines = append(lines, fmt.Sprintf("- 🤝 Kindness    %d", st.Kindness))
	lines = append(lines, "")

	if m.daily != nil {
		lines = append(lines, "Daily — "+m.daily.Date)
		for _, ch := range m.daily.Challenges {
			mark := "[ ]"
			if _, done := m.daily.Completed[ch.ID]; done {
				mark = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s %s", mark, ch.Name))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- enter: expand/collapse")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	var out []string
	out = append(out, "Palaces")
	for i, p := range m.palaces {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		state := ""
		switch {
		case p.Defeated:
			state = " CLEARED"
		case !p.Unlocked:
			state = " (locked)"
		}
		fold := "▸ "
		if m.expanded[p.Key] {
			fold = "▾ "
		}
		out = append(out, fmt.Sprintf("%s%s%s %s %.0f%%%s",
			cursor, fold, p.Name, ui.ProgressBar(int(p.Progress*100), 100, 16), p.Progress*100, state))

		if !m.expanded[p.Key] {
			continue
		}
		for _, obj := range p.Objectives {
			mark := "[ ]"
			if obj.Complete {
				mark = "[x]"
			}
			out = append(out, fmt.Sprintf("      %s %s (%d/%d)", mark, obj.Label, obj.Current, obj.Target))
		}
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
