// Package filestore implements service.Service on a local JSON file.
//
// The whole file is rewritten on every mutation through a temporary file and
// a rename, so a failed write leaves the previous contents in place.
package filestore

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"anto/internal/task"
)

// FileVersion is the current task file format version.
const FileVersion = 1

//go:embed tasks.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// ErrInvalidFile is returned when the task file does not match the schema.
var ErrInvalidFile = errors.New("invalid task file")

type file struct {
	Version int         `json:"version"`
	Tasks   []task.Task `json:"tasks"`
}

// Store keeps tasks in a JSON file.
type Store struct {
	path   string
	tasks  []task.Task
	logger *log.Logger
}

// New creates a Store for the file at path. The file is not read until Load.
func New(path string, logger *log.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the task file. A missing file yields an empty list.
func (s *Store) Load(ctx context.Context) ([]*task.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("task file not found, starting empty", "path", s.path)
			s.tasks = nil
			return []*task.Task{}, nil
		}
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	f, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	s.tasks = f.Tasks
	s.logger.Debug("loaded tasks", "path", s.path, "count", len(s.tasks))

	result := make([]*task.Task, len(s.tasks))
	for i := range s.tasks {
		t := s.tasks[i]
		result[i] = &t
	}
	return result, nil
}

// Append implements tasklist.Storage.
func (s *Store) Append(ctx context.Context, t *task.Task) error {
	next := make([]task.Task, len(s.tasks), len(s.tasks)+1)
	copy(next, s.tasks)
	next = append(next, *t)
	return s.commit(next, "append", "id", t.ID)
}

// MarkDone implements tasklist.Storage.
func (s *Store) MarkDone(ctx context.Context, index int) error {
	return s.setDone(index, true)
}

// Unmark implements tasklist.Storage.
func (s *Store) Unmark(ctx context.Context, index int) error {
	return s.setDone(index, false)
}

// Delete implements tasklist.Storage.
func (s *Store) Delete(ctx context.Context, index int) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	next := make([]task.Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:index]...)
	next = append(next, s.tasks[index+1:]...)
	return s.commit(next, "delete", "index", index)
}

// Close implements service.Service. The file is not held open.
func (s *Store) Close() error {
	return nil
}

func (s *Store) setDone(index int, done bool) error {
	if err := s.checkIndex(index); err != nil {
		return err
	}
	next := make([]task.Task, len(s.tasks))
	copy(next, s.tasks)
	next[index].Done = done
	return s.commit(next, "set done", "index", index, "done", done)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return fmt.Errorf("no stored task at index %d", index)
	}
	return nil
}

// commit writes next and adopts it only if the write succeeded.
func (s *Store) commit(next []task.Task, op string, keyvals ...any) error {
	data, err := encode(next)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.tasks = next
	s.logger.Debug("task file written", append([]any{"op", op, "count", len(next)}, keyvals...)...)
	return nil
}

func decode(data []byte) (*file, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, schemaMessage(err))
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return &f, nil
}

// schemaMessage flattens a schema validation error into one line.
func schemaMessage(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collectMessages(ve, &msgs)
	return strings.Join(msgs, "; ")
}

func collectMessages(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, ve.Message))
		return
	}
	for _, cause := range ve.Causes {
		collectMessages(cause, msgs)
	}
}

func encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file{Version: FileVersion, Tasks: tasks}); err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write task file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write task file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace task file: %w", err)
	}
	return nil
}
