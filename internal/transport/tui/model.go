package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cs-quiz/internal/app"
	"cs-quiz/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenSelect screen = iota
	screenQuiz
	screenComplete
)

// tickMsg and advanceMsg carry the generation they were scheduled in.
// Bumping the model's generation drops every pending message.
type tickMsg struct{ gen int }

type advanceMsg struct{ gen int }

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1a237e")).MarginBottom(1)
	progressStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ad1457"))
	timerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e53935"))
	scoreStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2e7d32"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2e7d32"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb8c00"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1976d2")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea screen flow: length selection, one screen per
// question, and the final score.
type Model struct {
	ctx     context.Context
	service *app.QuizService
	lengths []app.LengthOption
	tick    time.Duration

	screen   screen
	cursor   int
	selected int
	session  *app.Session
	gen      int

	feedback      string
	feedbackStyle lipgloss.Style
	summary       domain.Summary
	err           error
}

// NewModel builds the model; tick is the countdown resolution and
// defaults to one second.
func NewModel(ctx context.Context, service *app.QuizService, lengths []app.LengthOption, tick time.Duration) Model {
	if tick <= 0 {
		tick = time.Second
	}
	return Model{
		ctx:      ctx,
		service:  service,
		lengths:  lengths,
		tick:     tick,
		selected: -1,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Completed reports whether a session reached its final score.
func (m Model) Completed() bool { return m.screen == screenComplete }

func (m Model) Summary() domain.Summary { return m.summary }

func (m Model) Err() error { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if k := msg.String(); k == "ctrl+c" || k == "esc" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenSelect:
			return m.updateSelect(msg)
		case screenQuiz:
			return m.updateQuiz(msg)
		case screenComplete:
			return m, tea.Quit
		}
	case tickMsg:
		return m.onTick(msg)
	case advanceMsg:
		return m.onAdvance(msg)
	}
	return m, nil
}

func (m Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k := msg.String(); k {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lengths)-1 {
			m.cursor++
		}
	case "enter", " ", "space":
		if len(m.lengths) > 0 {
			return m.start(m.lengths[m.cursor].Count)
		}
	default:
		if idx, ok := digitIndex(k, len(m.lengths)); ok {
			return m.start(m.lengths[idx].Count)
		}
	}
	return m, nil
}

func (m Model) start(n int) (tea.Model, tea.Cmd) {
	session, err := m.service.Start(m.ctx, n)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.session = session
	m.screen = screenQuiz
	return m.showQuestion()
}

func (m Model) showQuestion() (tea.Model, tea.Cmd) {
	m.gen++
	m.cursor = 0
	m.selected = -1
	m.feedback = ""
	return m, m.tickCmd()
}

func (m Model) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Phase() != app.PhaseShowing {
		return m, nil
	}
	q, _ := m.session.Current()

	switch k := msg.String(); k {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case " ", "space":
		m.selected = m.cursor
	case "enter":
		return m.submit(q)
	default:
		if idx, ok := digitIndex(k, len(q.Options)); ok {
			m.selected = idx
			m.cursor = idx
		}
	}
	return m, nil
}

func (m Model) submit(q domain.Question) (tea.Model, tea.Cmd) {
	choice := ""
	if m.selected >= 0 && m.selected < len(q.Options) {
		choice = q.Options[m.selected]
	}

	out, err := m.service.Submit(m.session, choice)
	if errors.Is(err, domain.ErrNoChoice) {
		m.feedback = "Choose an answer!"
		m.feedbackStyle = warnStyle
		return m, nil
	}
	if err != nil {
		m.feedback = err.Error()
		m.feedbackStyle = warnStyle
		return m, nil
	}

	m.setFeedback(out)
	m.gen++
	return m, m.advanceCmd(m.service.Options().AnswerDelay)
}

func (m Model) onTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenQuiz || msg.gen != m.gen {
		return m, nil
	}
	out, expired := m.service.Tick(m.session)
	if !expired {
		return m, m.tickCmd()
	}
	m.setFeedback(out)
	return m, m.advanceCmd(m.service.Options().TimeoutDelay)
}

func (m Model) onAdvance(msg advanceMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenQuiz || msg.gen != m.gen {
		return m, nil
	}
	if m.session.Advance() {
		return m.showQuestion()
	}
	m.summary = m.service.Finish(m.ctx, m.session)
	m.screen = screenComplete
	return m, nil
}

func (m *Model) setFeedback(out domain.Outcome) {
	m.feedback = out.Message()
	if out.Kind == domain.OutcomeCorrect {
		m.feedbackStyle = correctStyle
	} else {
		m.feedbackStyle = wrongStyle
	}
}

func (m Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.tick, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m Model) advanceCmd(delay time.Duration) tea.Cmd {
	gen := m.gen
	return tea.Tick(delay, func(time.Time) tea.Msg { return advanceMsg{gen: gen} })
}

// digitIndex maps "1".."9" onto a zero-based index below n.
func digitIndex(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	return idx, idx < n
}

func (m Model) View() string {
	var b strings.Builder
	switch m.screen {
	case screenSelect:
		m.viewSelect(&b)
	case screenQuiz:
		m.viewQuiz(&b)
	case screenComplete:
		m.viewComplete(&b)
	}
	return b.String()
}

func (m Model) viewSelect(b *strings.Builder) {
	b.WriteString(titleStyle.Render("COMPUTER HISTORY\n& FUNDAMENTALS QUIZ"))
	b.WriteString("\n\nPick a quiz length to start:\n\n")
	for i, opt := range m.lengths {
		marker := "  "
		label := fmt.Sprintf("%d. %s", i+1, opt.Label)
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
			label = cursorStyle.Render(label)
		}
		b.WriteString(marker + label + "\n")
	}
	b.WriteString("\n" + hintStyle.Render("↑/↓ move • enter or number to start • esc quit") + "\n")
}

func (m Model) viewQuiz(b *strings.Builder) {
	q, ok := m.session.Current()
	if !ok {
		return
	}
	snap := m.session.Snapshot()
	b.WriteString(progressStyle.Render(fmt.Sprintf("Question %d / %d", snap.Index+1, snap.Total)))
	b.WriteString("\n\n" + q.Prompt + "\n\n")
	for i, opt := range q.Options {
		marker := "  "
		if i == m.cursor && snap.Phase == app.PhaseShowing {
			marker = cursorStyle.Render("> ")
		}
		radio := "( )"
		if i == m.selected {
			radio = "(•)"
		}
		b.WriteString(fmt.Sprintf("%s%s %d. %s\n", marker, radio, i+1, opt))
	}
	b.WriteString("\n" + timerStyle.Render(fmt.Sprintf("Time left: %ds", snap.Remaining)))
	b.WriteString("\n" + scoreStyle.Render(fmt.Sprintf("Score: %d", snap.Score)))
	b.WriteString("\n\n")
	if m.feedback != "" {
		b.WriteString(m.feedbackStyle.Render(m.feedback))
	}
	b.WriteString("\n\n" + hintStyle.Render("↑/↓ move • space or number to choose • enter submit • esc quit") + "\n")
}

func (m Model) viewComplete(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Quiz Complete!"))
	b.WriteString(fmt.Sprintf("\n\nYou scored %d / %d\n", m.summary.Score, m.summary.Total))
	b.WriteString(fmt.Sprintf("Accuracy: %.1f%%\n\n", m.summary.Percentage))
	b.WriteString("Thanks for playing!\n\n")
	b.WriteString(hintStyle.Render("press any key to exit") + "\n")
}

// Run drives the model on the terminal until the player quits.
func Run(ctx context.Context, model Model, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return model, err
	}
	m, ok := final.(Model)
	if !ok {
		return model, fmt.Errorf("unexpected model %T", final)
	}
	return m, m.Err()
}
