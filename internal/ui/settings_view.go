package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rag-chat/internal/models"
)

const (
	SettingsSavedText = "Settings saved!"

	sliderWidth = 30
)

// SettingsStore loads and persists retrieval settings
type SettingsStore interface {
	Load() models.RetrievalSettings
	Save(models.RetrievalSettings)
}

type settingsField int

const (
	fieldThreshold settingsField = iota
	fieldMaxContext
	fieldSaveButton
)

// ValidationFailed reports invalid form input
type ValidationFailed struct {
	MaxContextError string
}

// SettingsSaved is sent after the form was persisted
type SettingsSaved struct {
	Settings models.RetrievalSettings
}

type SettingsViewModel struct {
	store           SettingsStore
	threshold       float64
	maxContextInput textinput.Model
	currentField    settingsField
	maxContextError string
	width           int
	height          int
}

func NewSettingsViewModel(store SettingsStore, width, height int) SettingsViewModel {
	maxContextInput := textinput.New()
	maxContextInput.Placeholder = strconv.Itoa(models.DefaultMaxContextMessages)
	maxContextInput.CharLimit = 3
	maxContextInput.Width = 10

	m := SettingsViewModel{
		store:           store,
		maxContextInput: maxContextInput,
		width:           width,
		height:          height,
	}
	m.Reset()
	return m
}

// Reset reloads the form from the store
func (m *SettingsViewModel) Reset() {
	s := m.store.Load()
	m.threshold = s.SimilarityThreshold
	m.maxContextInput.SetValue(strconv.Itoa(s.MaxContextMessages))
	m.maxContextError = ""
	m.currentField = fieldThreshold
	m.updateFocus()
}

func (m SettingsViewModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SettingsViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ValidationFailed:
		m.maxContextError = msg.MaxContextError
		return m, nil

	case SettingsSaved:
		m.threshold = msg.Settings.SimilarityThreshold
		m.maxContextInput.SetValue(strconv.Itoa(msg.Settings.MaxContextMessages))
		return m, func() tea.Msg { return ShowAlert{Text: SettingsSavedText} }

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m.nextField()
			return m, nil

		case "shift+tab", "up":
			m.prevField()
			return m, nil

		case "left", "-":
			if m.currentField == fieldThreshold {
				m.stepThreshold(-1)
				return m, nil
			}

		case "right", "+", "=":
			if m.currentField == fieldThreshold {
				m.stepThreshold(1)
				return m, nil
			}

		case "enter":
			if m.currentField == fieldSaveButton {
				return m, m.save()
			}
			m.nextField()
			return m, nil
		}
	}

	if m.currentField == fieldMaxContext {
		var cmd tea.Cmd
		m.maxContextInput, cmd = m.maxContextInput.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			m.maxContextError = ""
		}
		return m, cmd
	}

	return m, nil
}

// stepThreshold moves the slider by whole steps within [0,1]
func (m *SettingsViewModel) stepThreshold(steps int) {
	v := m.threshold + float64(steps)*models.SimilarityThresholdStep
	v = math.Round(v*100) / 100
	m.threshold = math.Max(models.MinSimilarityThreshold, math.Min(models.MaxSimilarityThreshold, v))
}

func (m *SettingsViewModel) nextField() {
	m.currentField++
	if m.currentField > fieldSaveButton {
		m.currentField = fieldThreshold
	}
	m.updateFocus()
}

func (m *SettingsViewModel) prevField() {
	m.currentField--
	if m.currentField < fieldThreshold {
		m.currentField = fieldSaveButton
	}
	m.updateFocus()
}

func (m *SettingsViewModel) updateFocus() {
	m.maxContextInput.Blur()
	if m.currentField == fieldMaxContext {
		m.maxContextInput.Focus()
	}
}

// Form returns the settings the form currently describes, or a validation
// message for the max context field.
func (m SettingsViewModel) Form() (models.RetrievalSettings, string) {
	s := models.RetrievalSettings{SimilarityThreshold: m.threshold}

	value := strings.TrimSpace(m.maxContextInput.Value())
	if value == "" {
		return s, "Max Context Messages is required"
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return s, "Max Context Messages must be an integer"
	}
	if n < models.MinContextMessages || n > models.MaxContextMessages {
		return s, fmt.Sprintf("Max Context Messages must be between %d and %d", models.MinContextMessages, models.MaxContextMessages)
	}
	s.MaxContextMessages = n
	return s, ""
}

func (m SettingsViewModel) save() tea.Cmd {
	s, validationErr := m.Form()
	if validationErr != "" {
		return func() tea.Msg { return ValidationFailed{MaxContextError: validationErr} }
	}

	store := m.store
	return func() tea.Msg {
		s = s.Clamp()
		store.Save(s)
		return SettingsSaved{Settings: s}
	}
}

func (m SettingsViewModel) View() string {
	var b strings.Builder

	b.WriteString(TitleWithPaddingStyle.Render("RAG Configuration") + "\n")
	b.WriteString(MetadataStyle.Render(" Configure how the AI retrieves and processes information.") + "\n\n")

	// Similarity threshold slider
	label := fmt.Sprintf("Similarity Threshold (%.2f)", m.threshold)
	b.WriteString(RenderFieldLabel(label, m.currentField == fieldThreshold))
	b.WriteString("  " + MetadataStyle.Render("Higher = More strict") + "\n")
	b.WriteString(RenderSlider(m.threshold, sliderWidth) + "\n")
	b.WriteString(MetadataStyle.Render("Minimum similarity score for a document to be considered relevant.") + "\n\n")

	// Max context messages
	b.WriteString(RenderFieldLabel(fmt.Sprintf("Max Context Messages (%d-%d)", models.MinContextMessages, models.MaxContextMessages), m.currentField == fieldMaxContext) + "\n")
	b.WriteString(m.maxContextInput.View() + "\n")
	if m.maxContextError != "" {
		b.WriteString(RenderError(m.maxContextError) + "\n")
	}
	b.WriteString(MetadataStyle.Render("Number of previous messages to include in the context.") + "\n\n")

	b.WriteString(RenderButton("Save Settings", m.currentField == fieldSaveButton) + "\n")

	helpText := "Tab/↑/↓: Navigate • ←/→: Adjust threshold • Enter: Next/Save"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

// RenderSlider draws a horizontal gauge for a value in [0,1]
func RenderSlider(value float64, width int) string {
	filled := int(math.Round(value * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
