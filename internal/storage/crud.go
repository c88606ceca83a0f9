package storage

import (
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/dailytracker/internal/model"
)

// prefixTaskLog indexes logs by owning task.
const prefixTaskLog = "tasklog"

func taskLogKey(taskID, logID string) []byte {
	return []byte(prefixTaskLog + ":" + taskID + "\x00" + logID)
}

func taskLogPrefix(taskID string) []byte {
	return []byte(prefixTaskLog + ":" + taskID + "\x00")
}

// getJSON reads key and unmarshals it into v. It returns ErrNotFound if the
// key is absent.
func getJSON(txn *badger.Txn, key string, v any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// putJSON marshals v and stores it under key.
func putJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// exists checks whether key is present.
func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// scanJSON decodes every value under prefix and passes it to fn.
func scanJSON[T any](txn *badger.Txn, prefix string, fn func(T) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchSize = 100
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// scanKeys returns copies of every key under prefix.
func scanKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// logIDFromIndex extracts the log id from a tasklog index key.
func logIDFromIndex(key, prefix []byte) string {
	return string(key[len(prefix):])
}

// deleteTaskLogs removes every log owned by taskID along with its index keys.
func deleteTaskLogs(txn *badger.Txn, taskID string) (int, error) {
	prefix := taskLogPrefix(taskID)
	keys := scanKeys(txn, prefix)
	for _, key := range keys {
		if err := txn.Delete([]byte(model.LogKey(logIDFromIndex(key, prefix)))); err != nil {
			return 0, err
		}
		if err := txn.Delete(key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// deletePrefix removes every key under prefix.
func deletePrefix(txn *badger.Txn, prefix string) error {
	for _, key := range scanKeys(txn, []byte(prefix)) {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
