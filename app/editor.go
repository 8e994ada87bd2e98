package main

import (
	"os"
	"path/filepath"
	"strings"

	"gioui.org/widget"
)

const defaultFileName = "untitled.qcalc"

// EditorState holds the state for the text editor.
type EditorState struct {
	Editor   widget.Editor
	FilePath string
	Dirty    bool
}

// NewEditorState creates a new editor with default settings.
func NewEditorState() *EditorState {
	es := &EditorState{}
	es.Editor.SingleLine = false
	es.Editor.Submit = false
	return es
}

// Lines returns the text buffer as a slice of lines. Each line is one
// statement of the notepad session.
func (es *EditorState) Lines() []string {
	t := es.Editor.Text()
	if t == "" {
		return []string{""}
	}
	return strings.Split(t, "\n")
}

// LineCount returns the number of lines in the buffer.
func (es *EditorState) LineCount() int {
	return len(es.Lines())
}

// SetContent replaces the buffer with freshly loaded text.
func (es *EditorState) SetContent(data []byte, path string) {
	es.Editor.SetText(normalizeNewlines(data))
	if path != "" {
		es.FilePath = path
	}
	es.Dirty = false
}

// LoadFile reads a notepad file and sets the editor content.
func (es *EditorState) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	es.SetContent(data, path)
	return nil
}

// SaveFile writes the editor content to the given path.
func (es *EditorState) SaveFile(path string) error {
	err := os.WriteFile(path, []byte(es.Editor.Text()), 0644)
	if err != nil {
		return err
	}
	es.FilePath = path
	es.Dirty = false
	return nil
}

// Title returns a window title string showing filename and dirty state.
func (es *EditorState) Title() string {
	name := "untitled"
	if es.FilePath != "" {
		name = filepath.Base(es.FilePath)
	}
	if es.Dirty {
		return "* " + name + " - qcalc"
	}
	return name + " - qcalc"
}

func normalizeNewlines(data []byte) string {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}
