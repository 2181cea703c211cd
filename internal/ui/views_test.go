package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rag-chat/internal/models"
	"rag-chat/internal/settings"
	"rag-chat/internal/storage"
)

func TestSettingsForm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "Default", input: "6", want: 6},
		{name: "Lower bound", input: "0", want: 0},
		{name: "Upper bound", input: "20", want: 20},
		{name: "Too large", input: "21", wantErr: true},
		{name: "Negative", input: "-1", wantErr: true},
		{name: "Empty", input: "  ", wantErr: true},
		{name: "Not a number", input: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSettingsViewModel(settings.NewStore(storage.NewMemoryStore()), 80, 24)
			m.maxContextInput.SetValue(tt.input)

			got, validationErr := m.Form()
			if (validationErr != "") != tt.wantErr {
				t.Fatalf("Form() validation = %q, wantErr %v", validationErr, tt.wantErr)
			}
			if !tt.wantErr && got.MaxContextMessages != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got.MaxContextMessages)
			}
		})
	}
}

func TestSettingsThresholdStaysInRange(t *testing.T) {
	m := NewSettingsViewModel(settings.NewStore(storage.NewMemoryStore()), 80, 24)

	for i := 0; i < 30; i++ {
		m.stepThreshold(1)
	}
	if m.threshold != models.MaxSimilarityThreshold {
		t.Errorf("Expected %v at the top, got %v", models.MaxSimilarityThreshold, m.threshold)
	}

	for i := 0; i < 30; i++ {
		m.stepThreshold(-1)
	}
	if m.threshold != models.MinSimilarityThreshold {
		t.Errorf("Expected %v at the bottom, got %v", models.MinSimilarityThreshold, m.threshold)
	}
}

func TestSettingsInvalidSaveKeepsStore(t *testing.T) {
	store := settings.NewStore(storage.NewMemoryStore())
	m := NewSettingsViewModel(store, 80, 24)
	m.maxContextInput.SetValue("99")

	msg := m.save()()
	failed, ok := msg.(ValidationFailed)
	if !ok {
		t.Fatalf("Expected ValidationFailed, got %T", msg)
	}
	if failed.MaxContextError == "" {
		t.Error("Expected a validation message")
	}
	if got := store.Load(); got != models.DefaultRetrievalSettings() {
		t.Errorf("Expected store untouched, got %+v", got)
	}
}

func TestRenderSlider(t *testing.T) {
	tests := []struct {
		value  float64
		filled int
	}{
		{value: 0, filled: 0},
		{value: 0.5, filled: 5},
		{value: 1, filled: 10},
		{value: 2, filled: 10},
	}

	for _, tt := range tests {
		got := RenderSlider(tt.value, 10)
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("RenderSlider(%v): expected %d filled cells, got %d", tt.value, tt.filled, n)
		}
	}
}

func TestDocumentRow(t *testing.T) {
	doc := models.Document{
		Name:      "report.pdf",
		SizeBytes: 2048,
		CreatedAt: time.Now().Add(-3 * time.Hour),
	}

	row := DocumentRow(doc)
	if row[0] != "report.pdf" {
		t.Errorf("Expected name column, got %s", row[0])
	}
	if row[1] != "2.0 KiB" {
		t.Errorf("Expected binary size units, got %s", row[1])
	}
	if row[2] != "3 hours ago" {
		t.Errorf("Expected relative time, got %s", row[2])
	}
}

func TestDialogHandleKey(t *testing.T) {
	confirmed := false
	onConfirm := func() tea.Msg {
		confirmed = true
		return nil
	}

	t.Run("Confirm accepted", func(t *testing.T) {
		confirmed = false
		d := NewDialogOverlayModel()
		d.ShowConfirm("Delete?", onConfirm)

		cmd := d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
		if d.IsVisible() {
			t.Error("Expected dialog to close")
		}
		runCmd(cmd)
		if !confirmed {
			t.Error("Expected confirm command to run")
		}
	})

	t.Run("Confirm cancelled", func(t *testing.T) {
		confirmed = false
		d := NewDialogOverlayModel()
		d.ShowConfirm("Delete?", onConfirm)

		msgs := runCmd(d.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}))
		if confirmed {
			t.Error("Cancel must not run the confirm command")
		}
		if len(msgs) != 1 || msgs[0] != (DialogClosed{Confirmed: false}) {
			t.Errorf("Expected DialogClosed{false}, got %+v", msgs)
		}
	})

	t.Run("Other keys ignored", func(t *testing.T) {
		d := NewDialogOverlayModel()
		d.ShowAlert("Settings saved!")

		if cmd := d.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}); cmd != nil {
			t.Error("Expected no command for an unbound key")
		}
		if !d.IsVisible() || d.Text() != "Settings saved!" {
			t.Error("Expected alert to stay visible")
		}
	})
}
