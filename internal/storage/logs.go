package storage

import (
	"context"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/dailytracker/internal/model"
)

// ListLogs returns the logs matching q in the requested order.
func (s *BadgerStore) ListLogs(ctx context.Context, q LogQuery) ([]model.Log, error) {
	logs := []model.Log{}
	err := s.view(ctx, func(txn *badger.Txn) error {
		collect := func(l model.Log) error {
			if q.Matches(&l) {
				logs = append(logs, l)
			}
			return nil
		}
		if q.TaskID == "" {
			return scanJSON(txn, model.PrefixLog+":", collect)
		}

		prefix := taskLogPrefix(q.TaskID)
		for _, key := range scanKeys(txn, prefix) {
			var l model.Log
			if err := getJSON(txn, model.LogKey(logIDFromIndex(key, prefix)), &l); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return err
			}
			if err := collect(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortLogs(logs, q.Order)
	return logs, nil
}

// GetLog retrieves a log by id.
func (s *BadgerStore) GetLog(ctx context.Context, id string) (*model.Log, error) {
	log := &model.Log{}
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, model.LogKey(id), log)
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// InsertLog stores a new log. The referenced task must exist.
func (s *BadgerStore) InsertLog(ctx context.Context, log model.Log) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		found, err := exists(txn, model.LogKey(log.ID))
		if err != nil {
			return err
		}
		if found {
			return ErrConflict
		}
		if err := requireTask(txn, log.TaskID); err != nil {
			return err
		}
		return putLog(txn, log)
	}, TopicLogs)
}

// UpdateLog replaces an existing log, moving its index entry if the owning
// task changed.
func (s *BadgerStore) UpdateLog(ctx context.Context, log model.Log) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var prev model.Log
		if err := getJSON(txn, model.LogKey(log.ID), &prev); err != nil {
			return err
		}
		if err := requireTask(txn, log.TaskID); err != nil {
			return err
		}
		if prev.TaskID != log.TaskID {
			if err := txn.Delete(taskLogKey(prev.TaskID, prev.ID)); err != nil {
				return err
			}
		}
		return putLog(txn, log)
	}, TopicLogs)
}

// DeleteLog removes a log. Deleting a missing log is a no-op.
func (s *BadgerStore) DeleteLog(ctx context.Context, log model.Log) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		var prev model.Log
		if err := getJSON(txn, model.LogKey(log.ID), &prev); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if err := txn.Delete(taskLogKey(prev.TaskID, prev.ID)); err != nil {
			return err
		}
		return txn.Delete([]byte(model.LogKey(prev.ID)))
	}, TopicLogs)
}

// DeleteLogsByTask removes every log for taskID.
func (s *BadgerStore) DeleteLogsByTask(ctx context.Context, taskID string) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := deleteTaskLogs(txn, taskID)
		return err
	}, TopicLogs)
}

func requireTask(txn *badger.Txn, taskID string) error {
	found, err := exists(txn, model.TaskKey(taskID))
	if err != nil {
		return err
	}
	if !found {
		return ErrForeignKey
	}
	return nil
}

func putLog(txn *badger.Txn, log model.Log) error {
	if err := putJSON(txn, model.LogKey(log.ID), log); err != nil {
		return err
	}
	return txn.Set(taskLogKey(log.TaskID, log.ID), nil)
}
