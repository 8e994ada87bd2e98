package main

import (
	"io"

	"gioui.org/x/explorer"
)

// FileResult is the outcome of an open or save dialog. Path is empty when
// the platform does not expose the chosen file's name.
type FileResult struct {
	Data []byte
	Path string
	Err  error
}

// notepadExtensions filters the open dialog. Plain text is accepted since
// prelude files and notes are often saved that way.
var notepadExtensions = []string{".qcalc", ".txt"}

// inBackground runs a blocking dialog off the UI goroutine and delivers its
// result on the returned channel.
func inBackground(fn func() FileResult) <-chan FileResult {
	ch := make(chan FileResult, 1)
	go func() { ch <- fn() }()
	return ch
}

// fileName reports the path of a dialog-provided file, if it has one.
func fileName(f any) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// OpenFileAsync asks for a notepad file and reads it.
func OpenFileAsync(expl *explorer.Explorer) <-chan FileResult {
	return inBackground(func() FileResult {
		file, err := expl.ChooseFile(notepadExtensions...)
		if err != nil {
			return FileResult{Err: err}
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		return FileResult{Data: data, Path: fileName(file), Err: err}
	})
}

// SaveFileAsync asks where to save content and writes it there.
func SaveFileAsync(expl *explorer.Explorer, content []byte) <-chan FileResult {
	return inBackground(func() FileResult {
		w, err := expl.CreateFile(defaultFileName)
		if err != nil {
			return FileResult{Err: err}
		}
		_, err = w.Write(content)
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
		return FileResult{Path: fileName(w), Err: err}
	})
}
