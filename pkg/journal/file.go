package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// File is a Sink backed by an append-only JSONL file, one entry per line.
type File struct {
	path string
	file *os.File
	mu   sync.Mutex
}

// NewFile opens (or creates) the JSONL journal at path.
func NewFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	return &File{path: path, file: f}, nil
}

func (f *File) Log(message string, severity Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(newEntry(message, severity))
	if err != nil {
		return
	}
	data = append(data, '\n')
	f.file.Write(data)
}

func (f *File) Close() error {
	return f.file.Close()
}

// Read decodes every entry currently in the journal file, in write order.
func (f *File) Read() ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading journal file: %w", err)
	}

	var entries []Entry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decoding journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
