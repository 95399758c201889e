package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atalib94/procedure-tracker-sub001/internal/catalog"
	"github.com/atalib94/procedure-tracker-sub001/internal/grading"
	"github.com/atalib94/procedure-tracker-sub001/internal/review"
)

type phase int

const (
	phaseAsking phase = iota
	phaseFeedback
	phaseSummary
)

// StudyModel runs one study session: ask, grade, show feedback, repeat,
// then a summary. Quitting mid-session still finishes the session so
// the partial run lands in the ledger's session log.
type StudyModel struct {
	ctrl  StudyController
	theme Theme
	input textinput.Model

	phase    phase
	total    int
	answered int
	question catalog.Question
	result   grading.Result
	progress review.ItemProgress
	marked   bool
	record   review.StudySession
	err      error
}

func NewStudyModel(ctrl StudyController, total int, theme Theme) *StudyModel {
	ti := textinput.New()
	ti.Placeholder = "answer"
	ti.CharLimit = 120
	ti.Focus()

	m := &StudyModel{
		ctrl:  ctrl,
		theme: theme,
		input: ti,
		total: total,
	}
	m.advance()
	return m
}

// advance pulls the next question or flips to the summary.
func (m *StudyModel) advance() {
	q, err := m.ctrl.CurrentQuestion()
	if err != nil {
		m.finish()
		return
	}
	m.question = q
	m.marked = false
	m.input.SetValue("")
	m.phase = phaseAsking
}

func (m *StudyModel) finish() {
	record, err := m.ctrl.FinishSession(context.Background())
	if err != nil {
		m.err = err
	}
	m.record = record
	m.phase = phaseSummary
}

func (m *StudyModel) Init() tea.Cmd { return textinput.Blink }

func (m *StudyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		if m.phase != phaseSummary {
			m.finish()
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.phase {
	case phaseAsking:
		if key.String() == "enter" {
			res, progress, err := m.ctrl.SubmitAnswer(context.Background(), m.input.Value())
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.result = res
			m.progress = progress
			m.answered++
			m.phase = phaseFeedback
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseFeedback:
		switch key.String() {
		case "m":
			p := m.ctrl.ToggleMark(context.Background(), m.question.QuestionID)
			m.marked = p.IsMarkedForReview
		case "enter", " ":
			m.advance()
		}
		return m, nil

	default: // summary
		return m, tea.Quit
	}
}

func (m *StudyModel) View() string {
	var b strings.Builder
	switch m.phase {
	case phaseAsking:
		m.viewQuestion(&b)
	case phaseFeedback:
		m.viewFeedback(&b)
	default:
		m.viewSummary(&b)
	}
	return b.String()
}

func (m *StudyModel) viewQuestion(b *strings.Builder) {
	fmt.Fprintln(b, m.theme.Header.Render(fmt.Sprintf("question %d of %d", m.answered+1, m.total)))
	if m.question.Category != "" {
		fmt.Fprintln(b, m.theme.Category.Render(m.question.Category))
	}
	fmt.Fprintln(b, m.theme.Prompt.Render(m.question.Prompt))
	for i, c := range m.question.Choices {
		fmt.Fprintln(b, m.theme.Choice.Render(fmt.Sprintf("  %d. %s", i+1, c)))
	}
	fmt.Fprintln(b, m.input.View())
	fmt.Fprintln(b, m.theme.Muted.Render("enter to answer, esc to stop"))
}

func (m *StudyModel) viewFeedback(b *strings.Builder) {
	if m.result.Correct {
		fmt.Fprintln(b, m.theme.Pass.Render("correct"))
	} else {
		fmt.Fprintln(b, m.theme.Fail.Render("incorrect"))
		fmt.Fprintln(b, "expected: "+m.theme.Accent.Render(m.result.Expected))
	}
	next := "new"
	if m.progress.NextReviewDate != nil {
		next = m.progress.NextReviewDate.Format("2006-01-02")
	}
	fmt.Fprintln(b, m.theme.Muted.Render(fmt.Sprintf(
		"interval %dd · streak %d · next review %s", m.progress.Interval, m.progress.Streak, next)))
	if m.marked {
		fmt.Fprintln(b, m.theme.Accent.Render("flagged for review"))
	}
	fmt.Fprintln(b, m.theme.Muted.Render("enter for next, m to flag, esc to stop"))
}

func (m *StudyModel) viewSummary(b *strings.Builder) {
	fmt.Fprintln(b, m.theme.Header.Render("session complete"))
	fmt.Fprintln(b, m.theme.Panel.Render(fmt.Sprintf(
		"answered %d\ncorrect  %s\nmissed   %s",
		m.record.QuestionCount,
		m.theme.Pass.Render(fmt.Sprintf("%d", m.record.CorrectCount)),
		m.theme.Fail.Render(fmt.Sprintf("%d", m.record.IncorrectCount)),
	)))
	fmt.Fprintln(b, m.theme.Muted.Render("press any key to exit"))
}
