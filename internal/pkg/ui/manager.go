// Package ui provides interactive terminal UI components for aicommit.
package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/aicommit/aicommit/internal/pkg/message"
)

// Action represents a user action in the interactive UI.
type Action int

const (
	ActionAccept Action = iota
	ActionEdit
	ActionCancel
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionEdit:
		return "edit"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	DisplayMessage(msg *message.CommitMessage, warnings []string) error
	PromptAction() (Action, error)
	EditMessage(msg *message.CommitMessage) (*message.CommitMessage, error)
	ShowSpinner(text string) Spinner
	ShowError(err error)
	ShowSuccess(msg string)
	PromptConfirm(msg string) (bool, error)
}

// DefaultManager implements the Manager interface using charmbracelet libraries.
type DefaultManager struct {
	colorEnabled bool
	editor       string
	styles       *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	subject    lipgloss.Style
	body       lipgloss.Style
	warning    lipgloss.Style
	success    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

// NewDefaultManager creates a new DefaultManager with the specified options.
func NewDefaultManager(colorEnabled bool, editor string) *DefaultManager {
	m := &DefaultManager{
		colorEnabled: colorEnabled,
		editor:       editor,
	}
	m.styles = initStyles(colorEnabled)
	return m
}

// initStyles initializes the lipgloss styles.
func initStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		return &styles{
			title:      lipgloss.NewStyle(),
			subject:    lipgloss.NewStyle(),
			body:       lipgloss.NewStyle(),
			warning:    lipgloss.NewStyle(),
			success:    lipgloss.NewStyle(),
			errorStyle: lipgloss.NewStyle(),
			info:       lipgloss.NewStyle(),
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1),
		subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// DisplayMessage displays the generated commit message to the user,
// along with any lint warnings (such as an over-long subject line).
func (m *DefaultManager) DisplayMessage(msg *message.CommitMessage, warnings []string) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	fmt.Println()
	fmt.Println(m.styles.title.Render("Generated Commit Message"))
	fmt.Println(strings.Repeat("-", 50))

	fmt.Println(m.styles.subject.Render(msg.FormatSubject()))

	if msg.HasBody() {
		fmt.Println()
		fmt.Println(m.styles.body.Render(msg.Body))
	}

	fmt.Println(strings.Repeat("-", 50))

	for _, w := range warnings {
		fmt.Println(m.styles.warning.Render("Warning: " + w))
	}
	fmt.Println()

	return nil
}

// PromptAction prompts the user to select an action using Bubble Tea.
func (m *DefaultManager) PromptAction() (Action, error) {
	model := newActionSelectModel()
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return ActionCancel, err
	}

	result := finalModel.(actionSelectModel)
	return result.selected, nil
}

// actionSelectModel is the Bubble Tea model for action selection.
type actionSelectModel struct {
	choices  []actionChoice
	cursor   int
	selected Action
	done     bool
}

type actionChoice struct {
	action Action
	label  string
	icon   string
	desc   string
}

func newActionSelectModel() actionSelectModel {
	return actionSelectModel{
		choices: []actionChoice{
			{ActionAccept, "Accept", "›", "Commit with this message"},
			{ActionEdit, "Edit", "•", "Modify the message"},
			{ActionCancel, "Cancel", "×", "Abort without committing"},
		},
		cursor:   0,
		selected: ActionCancel,
	}
}

func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.selected = ActionCancel
			m.done = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.selected = m.choices[m.cursor].action
			m.done = true
			return m, tea.Quit
		case "1":
			m.selected = ActionAccept
			m.done = true
			return m, tea.Quit
		case "2":
			m.selected = ActionEdit
			m.done = true
			return m, tea.Quit
		case "3":
			m.selected = ActionCancel
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m actionSelectModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("What would you like to do?"))
	sb.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := "  "
		style := normalStyle
		if m.cursor == i {
			cursor = "▸ "
			style = selectedStyle
		}

		line := fmt.Sprintf("%s%s %s", cursor, choice.icon, style.Render(choice.label))
		sb.WriteString(line)
		sb.WriteString(descStyle.Render(fmt.Sprintf(" - %s", choice.desc)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(descStyle.Render("↑/↓ or j/k to move • Enter to select • 1-3 quick select • q to cancel"))

	return sb.String()
}

// EditMessage opens an editor for the user to modify the commit message.
// The edited text is parsed back into a CommitMessage; an edit that no
// longer matches the Conventional Commits format is rejected.
func (m *DefaultManager) EditMessage(msg *message.CommitMessage) (*message.CommitMessage, error) {
	if msg == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}

	editContent := msg.Format()

	// Try to use external editor first
	editor := m.getEditor()
	if editor != "" {
		edited, err := m.editWithExternalEditor(editor, editContent)
		if err == nil {
			return message.FromResponse(edited)
		}
		// Fall back to inline editor if external editor fails
		fmt.Println(m.styles.info.Render("External editor not available, using inline editor..."))
	}

	// Use huh text area for inline editing
	edited, err := m.editWithInlineEditor(editContent)
	if err != nil {
		return nil, fmt.Errorf("failed to edit message: %w", err)
	}

	return message.FromResponse(edited)
}

// getEditor returns the editor to use for editing messages.
func (m *DefaultManager) getEditor() string {
	if m.editor != "" {
		return m.editor
	}

	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}

	return ""
}

// editWithExternalEditor opens an external editor for editing.
func (m *DefaultManager) editWithExternalEditor(editor, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "aicommit-msg-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	tmpFile.Close()

	cmd := exec.Command(editor, tmpPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}

	return string(edited), nil
}

// editWithInlineEditor uses huh text area for inline editing.
func (m *DefaultManager) editWithInlineEditor(content string) (string, error) {
	edited := content

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Edit below. Press Ctrl+D or Tab then Enter to save. Ctrl+C or Esc to cancel.").
				Value(&edited).
				CharLimit(0), // No limit
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return edited, nil
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text)
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Println()
	fmt.Println(m.styles.errorStyle.Render("Error: " + err.Error()))
	fmt.Println()
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(msg string) {
	fmt.Println()
	fmt.Println(m.styles.success.Render("[OK] " + msg))
	fmt.Println()
}

// PromptConfirm prompts the user for a yes/no confirmation using Bubble Tea.
func (m *DefaultManager) PromptConfirm(msg string) (bool, error) {
	model := newConfirmModel(msg)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	result := finalModel.(confirmModel)
	return result.confirmed, nil
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{
		message: message,
		cursor:  0, // Default to Yes
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "n":
			m.confirmed = false
			m.done = true
			return m, tea.Quit
		case "y", "Y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.cursor = 0
		case "right", "l":
			m.cursor = 1
		case "enter", " ":
			m.confirmed = m.cursor == 0
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")

	yesStyle := normalStyle
	noStyle := normalStyle
	if m.cursor == 0 {
		yesStyle = selectedStyle
	} else {
		noStyle = selectedStyle
	}

	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))

	return sb.String()
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	text    string
	program *tea.Program
	model   *spinnerModel
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for simple spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerTickMsg is sent to update spinner text from outside.
type spinnerTickMsg struct {
	text string
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTickMsg:
		m.text = msg.text
		return m, nil
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	model := &spinnerModel{
		spinner: s,
		text:    text,
	}

	return &bubbleSpinner{
		text:  text,
		model: model,
	}
}

func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.program = tea.NewProgram(s.model)
	go func() {
		_, _ = s.program.Run()
	}()
}

func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(spinnerQuitMsg{})
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.text = text
	if s.program != nil {
		s.program.Send(spinnerTickMsg{text: text})
	}
}

// NonInteractiveManager implements Manager for non-interactive mode
// (--yes, --print-only, or when stdout is not a terminal).
type NonInteractiveManager struct {
	colorEnabled bool
	styles       *styles
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return &NonInteractiveManager{
		colorEnabled: colorEnabled,
		styles:       initStyles(colorEnabled),
	}
}

// DisplayMessage prints the commit message without decoration so the
// output can be piped or captured.
func (m *NonInteractiveManager) DisplayMessage(msg *message.CommitMessage, warnings []string) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	fmt.Println(msg.Format())

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	return nil
}

// PromptAction always returns ActionAccept in non-interactive mode.
func (m *NonInteractiveManager) PromptAction() (Action, error) {
	return ActionAccept, nil
}

// EditMessage returns the original message unchanged in non-interactive mode.
func (m *NonInteractiveManager) EditMessage(msg *message.CommitMessage) (*message.CommitMessage, error) {
	return msg, nil
}

// ShowSpinner returns a no-op spinner in non-interactive mode.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}

// ShowSuccess displays a success message.
func (m *NonInteractiveManager) ShowSuccess(msg string) {
	fmt.Println(msg)
}

// PromptConfirm always returns true in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(msg string) (bool, error) {
	return true, nil
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start()            {}
func (s *noopSpinner) Stop()             {}
func (s *noopSpinner) UpdateText(string) {}
