package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MihkelHunter/tasklist/internal/todo"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "todos"

const opTimeout = 5 * time.Second

// TaskRepository implements todo.Repository over a KV. The whole task list is
// read and written as one value.
type TaskRepository struct {
	kv  KV
	key string
}

func NewTaskRepository(kv KV, key string) *TaskRepository {
	if key == "" {
		key = DefaultKey
	}
	return &TaskRepository{kv: kv, key: key}
}

// Load returns the stored list. A missing key yields an empty list and no
// error; an unparseable value yields ErrMalformed.
func (r *TaskRepository) Load() ([]todo.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, ok, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	tasks, err := DecodeTasks(data)
	if err != nil {
		return nil, fmt.Errorf("key %q: %w", r.key, err)
	}
	return tasks, nil
}

func (r *TaskRepository) Save(tasks []todo.Task) error {
	data, err := EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return r.kv.Put(ctx, r.key, data)
}

func (r *TaskRepository) Close() error {
	return r.kv.Close()
}
