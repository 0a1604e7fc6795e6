// Package tui provides the Bubble Tea calculator session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkruglikov/decalc/internal/calc"
)

type promptStage int

const (
	stageCommand promptStage = iota
	stageOperandX
	stageOperandY
)

const scrollbackLimit = 500

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	echoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

type line struct {
	text  string
	style lipgloss.Style
}

// Model implements the Bubble Tea calculator REPL.
type Model struct {
	calc  *calc.Calculator
	input textinput.Model
	lines []line

	stage          promptStage
	pendingCommand string
	pendingX       string

	width  int
	height int
}

// NewModel constructs the REPL model around a calculator session.
func NewModel(calculator *calc.Calculator) *Model {
	input := textinput.New()
	input.Prompt = ">>$ "
	input.Focus()

	m := &Model{calc: calculator, input: input}
	m.say(mutedStyle, "Welcome to decalc")
	m.say(mutedStyle, "Type 'help' for usage information, or 'exit' to quit")
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			m.exitSave()
			return m, tea.Quit
		case tea.KeyEnter:
			value := m.input.Value()
			m.input.SetValue("")
			return m, m.submit(value)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("decalc"))
	b.WriteByte('\n')

	visible := m.lines
	if m.height > 3 && len(visible) > m.height-3 {
		visible = visible[len(visible)-(m.height-3):]
	}
	for _, ln := range visible {
		b.WriteString(ln.style.Render(ln.text))
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	return b.String()
}

// submit consumes one entered line according to the current prompt stage.
func (m *Model) submit(raw string) tea.Cmd {
	entered := strings.TrimSpace(raw)
	m.say(echoStyle, ">>$ "+entered)

	switch m.stage {
	case stageOperandX:
		if strings.EqualFold(entered, "cancel") {
			m.cancelPending()
			return nil
		}
		m.pendingX = entered
		m.stage = stageOperandY
		m.say(mutedStyle, "operandy:")
		return nil
	case stageOperandY:
		if strings.EqualFold(entered, "cancel") {
			m.cancelPending()
			return nil
		}
		x := m.pendingX
		m.resetStage()
		m.perform(x, entered)
		return nil
	default:
		return m.handleCommand(entered)
	}
}

func (m *Model) handleCommand(entered string) tea.Cmd {
	if entered == "" {
		return nil
	}
	fields := strings.Fields(entered)
	command := strings.ToLower(fields[0])

	switch command {
	case "help":
		m.printHelp()
	case "exit":
		m.exitSave()
		return tea.Quit
	case "history":
		m.printHistory()
	case "clear":
		m.calc.ClearHistory()
		m.say(resultStyle, "History cleared")
	case "undo":
		if m.calc.Undo() {
			m.say(resultStyle, "Undo successful")
		} else {
			m.say(mutedStyle, "Nothing to undo")
		}
	case "redo":
		if m.calc.Redo() {
			m.say(resultStyle, "Redo successful")
		} else {
			m.say(mutedStyle, "Nothing to redo")
		}
	case "save":
		if err := m.calc.SaveHistory(); err != nil {
			m.say(errorStyle, fmt.Sprintf("Warning: Save failed: %v", err))
		} else {
			m.say(resultStyle, "Save Successful")
		}
	case "load":
		if err := m.calc.LoadHistory(); err != nil {
			m.say(errorStyle, fmt.Sprintf("Warning: Load failed: %v", err))
		} else {
			m.say(resultStyle, "Load Successful")
		}
	default:
		m.handleOperation(command, fields[1:])
	}
	return nil
}

// handleOperation dispatches an arithmetic command. Operands may be given
// inline ("add 8 6"), as a single value applied to the running total
// ("add 6"), or interactively when omitted.
func (m *Model) handleOperation(command string, args []string) {
	op, err := m.calc.Registry().Create(command)
	if err != nil {
		m.say(errorStyle, fmt.Sprintf("Unknown command: '%s'. Type 'help' for available commands.", command))
		return
	}
	m.calc.SetOperation(op)

	switch len(args) {
	case 0:
		m.pendingCommand = command
		m.stage = stageOperandX
		m.say(mutedStyle, fmt.Sprintf("Enter operands for command '%s', or 'cancel' to abort:", command))
		m.say(mutedStyle, "operandx:")
	case 1:
		m.perform(m.calc.Total().String(), args[0])
	case 2:
		m.perform(args[0], args[1])
	default:
		m.say(errorStyle, fmt.Sprintf("Error: too many operands for '%s'", command))
	}
}

func (m *Model) perform(rawX, rawY string) {
	result, err := m.calc.PerformOperation(rawX, rawY)
	if err != nil {
		m.say(errorStyle, fmt.Sprintf("Error: %v", err))
		return
	}
	m.say(resultStyle, "Result: "+result.String())
}

func (m *Model) printHelp() {
	m.say(mutedStyle, "Available Commands")
	m.say(mutedStyle, "------------------")
	m.say(mutedStyle, "add, subtract, multiply, divide, power, root,")
	m.say(mutedStyle, "modulus, int_divide, percentage, distance - Perform calculations")
	m.say(mutedStyle, "  e.g. 'add 8 6', 'add 6' (uses the running total), or 'add' to be prompted")
	m.say(mutedStyle, "history - Display your calculation history")
	m.say(mutedStyle, "clear - Clear your calculation history")
	m.say(mutedStyle, "undo - Undo your last calculation")
	m.say(mutedStyle, "redo - Redo the last undone calculation")
	m.say(mutedStyle, "save - Save calculation history to file")
	m.say(mutedStyle, "load - Load calculation history from file")
	m.say(mutedStyle, "exit - Exit the calculator")
}

func (m *Model) printHistory() {
	entries := m.calc.ShowHistory()
	if len(entries) == 0 {
		m.say(mutedStyle, "No history to display")
		return
	}
	m.say(mutedStyle, "Calculation History")
	m.say(mutedStyle, "-------------------")
	for i, entry := range entries {
		m.say(resultStyle, fmt.Sprintf("%d. %s", i+1, entry))
	}
}

func (m *Model) exitSave() {
	if err := m.calc.SaveHistory(); err != nil {
		m.say(errorStyle, fmt.Sprintf("Warning: History save failed: %v", err))
		return
	}
	m.say(mutedStyle, "History saved successfully.")
}

func (m *Model) cancelPending() {
	m.say(mutedStyle, fmt.Sprintf("%s cancelled", m.pendingCommand))
	m.resetStage()
}

func (m *Model) resetStage() {
	m.stage = stageCommand
	m.pendingCommand = ""
	m.pendingX = ""
}

func (m *Model) say(style lipgloss.Style, text string) {
	m.lines = append(m.lines, line{text: text, style: style})
	if len(m.lines) > scrollbackLimit {
		m.lines = m.lines[len(m.lines)-scrollbackLimit:]
	}
}
