// Package wizard is the interactive front door. It walks the user through
// task selection and parameters, then hands a fully resolved Request to the
// caller. Partial wizard state never reaches the pipeline.
//
// The model follows The Elm Architecture that bubbletea imposes: state in the
// model, transitions in Update, rendering in View.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saint0x/ggsum/pkg/prompt"
)

// Request is the resolved outcome of a wizard session.
type Request struct {
	Task      prompt.Task
	Days      int
	ShowDiff  bool
	SavePath  string
	SendSlack bool
	Aborted   bool
}

// step is which screen the wizard is on.
type step int

const (
	stepSelectTask step = iota
	stepDays
	stepSavePath
	stepSlack
	stepShowDiff
	stepConfirm
	stepDone
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	summaryStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// taskItem adapts a task choice to the bubbles list interface.
type taskItem struct {
	task  prompt.Task
	title string
	desc  string
}

func (i taskItem) Title() string       { return i.title }
func (i taskItem) Description() string { return i.desc }
func (i taskItem) FilterValue() string { return i.title }

type model struct {
	step    step
	tasks   list.Model
	input   textinput.Model
	request Request
	err     string
}

func newModel(defaults Request) model {
	items := []list.Item{
		taskItem{task: prompt.TaskStatus, title: "📊 Status", desc: "Summarize uncommitted changes"},
		taskItem{task: prompt.TaskCommit, title: "💡 Commit", desc: "Suggest a commit message"},
		taskItem{task: prompt.TaskReport, title: "📈 Report", desc: "Progress report for recent commits"},
		taskItem{task: "", title: "👋 Exit", desc: "Leave without running anything"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 14)
	l.Title = "What would you like to do?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.CharLimit = 128

	return model{step: stepSelectTask, tasks: l, input: ti, request: defaults}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		return m, cmd
	}

	if keyMsg.String() == "ctrl+c" || keyMsg.String() == "esc" {
		m.request.Aborted = true
		m.step = stepDone
		return m, tea.Quit
	}

	switch m.step {
	case stepSelectTask:
		return m.updateSelectTask(keyMsg)
	case stepDays:
		return m.updateDays(keyMsg)
	case stepSavePath:
		return m.updateSavePath(keyMsg)
	case stepSlack:
		if yes, ok := parseYesNo(keyMsg); ok {
			m.request.SendSlack = yes
			m.step = stepConfirm
		}
		return m, nil
	case stepShowDiff:
		if yes, ok := parseYesNo(keyMsg); ok {
			m.request.ShowDiff = yes
			m.step = stepConfirm
		}
		return m, nil
	case stepConfirm:
		return m.updateConfirm(keyMsg)
	}
	return m, nil
}

func (m model) updateSelectTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := m.tasks.SelectedItem().(taskItem)
		if !ok {
			return m, nil
		}
		if item.task == "" {
			m.request.Aborted = true
			m.step = stepDone
			return m, tea.Quit
		}
		m.request.Task = item.task

		switch item.task {
		case prompt.TaskReport:
			m.step = stepDays
			m.input.SetValue(strconv.Itoa(m.request.Days))
			m.input.Focus()
			return m, textinput.Blink
		case prompt.TaskStatus:
			m.step = stepShowDiff
		default:
			m.step = stepConfirm
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.tasks, cmd = m.tasks.Update(msg)
	return m, cmd
}

func (m model) updateDays(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		days, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil || days <= 0 {
			m.err = "Enter a positive number of days."
			return m, nil
		}
		m.err = ""
		m.request.Days = days
		m.step = stepSavePath
		m.input.SetValue(m.request.SavePath)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateSavePath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.request.SavePath = strings.TrimSpace(m.input.Value())
		m.step = stepSlack
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseYesNo maps a keypress to a yes/no answer; enter means no.
func parseYesNo(msg tea.KeyMsg) (yes, ok bool) {
	switch msg.String() {
	case "y", "Y":
		return true, true
	case "n", "N", "enter":
		return false, true
	}
	return false, false
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.step = stepDone
		return m, tea.Quit
	case "n", "N":
		// Back to the start; keep gathered parameters as new defaults.
		m.step = stepSelectTask
	}
	return m, nil
}

func (m model) View() string {
	switch m.step {
	case stepSelectTask:
		return titleStyle.Render("🚀 ggsum") + "\n\n" + m.tasks.View()
	case stepDays:
		view := questionStyle.Render("How many days should the report cover?") + "\n\n" + m.input.View()
		if m.err != "" {
			view += "\n" + m.err
		}
		return view
	case stepSavePath:
		return questionStyle.Render("Save report to a Markdown file? (leave empty to skip)") + "\n\n" + m.input.View()
	case stepSlack:
		return questionStyle.Render("Send the report to Slack? [y/N]")
	case stepShowDiff:
		return questionStyle.Render("Show a diff preview before the summary? [y/N]")
	case stepConfirm:
		return m.confirmView()
	}
	return ""
}

func (m model) confirmView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", m.request.Task)
	if m.request.Task == prompt.TaskReport {
		fmt.Fprintf(&b, "Days: %d\n", m.request.Days)
		if m.request.SavePath != "" {
			fmt.Fprintf(&b, "Save to: %s\n", m.request.SavePath)
		}
		fmt.Fprintf(&b, "Slack: %v\n", m.request.SendSlack)
	}
	if m.request.Task == prompt.TaskStatus {
		fmt.Fprintf(&b, "Diff preview: %v\n", m.request.ShowDiff)
	}

	return summaryStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n\n" +
		questionStyle.Render("Run this? [Y/n]") + "\n" +
		faintStyle.Render("esc to abort")
}

// Run drives a wizard session and returns the resolved request. defaults
// seeds the parameter screens.
func Run(defaults Request) (Request, error) {
	final, err := tea.NewProgram(newModel(defaults)).Run()
	if err != nil {
		return Request{Aborted: true}, err
	}
	m, ok := final.(model)
	if !ok {
		return Request{Aborted: true}, nil
	}
	return m.request, nil
}
