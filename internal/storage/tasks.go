package storage

import (
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/dailytracker/internal/model"
)

// ListTasks returns every task ordered by creation time.
func (s *BadgerStore) ListTasks(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanJSON(txn, model.PrefixTask+":", func(t model.Task) error {
			tasks = append(tasks, t)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)
	return tasks, nil
}

// GetTask retrieves a task by id.
func (s *BadgerStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task := &model.Task{}
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, model.TaskKey(id), task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// InsertTask stores a new task. It fails with ErrConflict if the id is taken.
func (s *BadgerStore) InsertTask(ctx context.Context, task model.Task) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		key := model.TaskKey(task.ID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return ErrConflict
		}
		return putJSON(txn, key, task)
	}, TopicTasks)
}

// UpdateTask replaces an existing task.
func (s *BadgerStore) UpdateTask(ctx context.Context, task model.Task) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		key := model.TaskKey(task.ID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return putJSON(txn, key, task)
	}, TopicTasks)
}

// DeleteTask removes a task and every log that references it.
// Deleting a missing task is a no-op.
func (s *BadgerStore) DeleteTask(ctx context.Context, task model.Task) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if _, err := deleteTaskLogs(txn, task.ID); err != nil {
			return err
		}
		return txn.Delete([]byte(model.TaskKey(task.ID)))
	}, TopicTasks, TopicLogs)
}

// ReplaceAll swaps the whole dataset in one transaction.
func (s *BadgerStore) ReplaceAll(ctx context.Context, tasks []model.Task, logs []model.Log) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for _, prefix := range []string{model.PrefixTask + ":", model.PrefixLog + ":", prefixTaskLog + ":"} {
			if err := deletePrefix(txn, prefix); err != nil {
				return err
			}
		}

		ids := make(map[string]struct{}, len(tasks))
		for _, t := range tasks {
			if _, dup := ids[t.ID]; dup {
				return ErrConflict
			}
			ids[t.ID] = struct{}{}
			if err := putJSON(txn, model.TaskKey(t.ID), t); err != nil {
				return err
			}
		}

		seen := make(map[string]struct{}, len(logs))
		for _, l := range logs {
			if _, ok := ids[l.TaskID]; !ok {
				return ErrForeignKey
			}
			if _, dup := seen[l.ID]; dup {
				return ErrConflict
			}
			seen[l.ID] = struct{}{}
			if err := putLog(txn, l); err != nil {
				return err
			}
		}
		return nil
	}, TopicTasks, TopicLogs)
}
