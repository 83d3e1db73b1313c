package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/MihkelHunter/tasklist/internal/todo"
)

// ErrMalformed wraps every reason a stored document cannot be decoded.
var ErrMalformed = errors.New("malformed task document")

const tasksSchemaURL = "tasks.schema.json"

const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id":        {"type": "integer", "maximum": 9007199254740991},
      "text":      {"type": "string", "pattern": "\\S"},
      "completed": {"type": "boolean"}
    }
  }
}`

var taskListSchema = jsonschema.MustCompileString(tasksSchemaURL, tasksSchema)

// EncodeTasks serializes the task list as a JSON array. A nil list encodes as
// an empty array.
func EncodeTasks(tasks []todo.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []todo.Task{}
	}
	return json.Marshal(tasks)
}

// DecodeTasks parses and validates a stored task list. Text is trimmed and
// any later task repeating an earlier id is dropped. Ids above 2^53-1 are
// rejected so the id sequence cannot run out of room.
func DecodeTasks(data []byte) ([]todo.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := taskListSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, schemaErrorSummary(err))
	}

	var raw []todo.Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	tasks := make([]todo.Task, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, t := range raw {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			// The schema pattern only knows ASCII whitespace.
			return nil, fmt.Errorf("%w: task %d has blank text", ErrMalformed, t.ID)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// schemaErrorSummary flattens a validation error into "path: message" pairs.
func schemaErrorSummary(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var parts []string
	collectSchemaErrors(ve, &parts)
	if len(parts) == 0 {
		return ve.Message
	}
	return strings.Join(parts, "; ")
}

func collectSchemaErrors(ve *jsonschema.ValidationError, parts *[]string) {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*parts = append(*parts, loc+": "+ve.Message)
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, parts)
	}
}
