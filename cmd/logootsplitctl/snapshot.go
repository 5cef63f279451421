package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/seqcrdt/logootsplit"
)

var (
	opsBucket  = []byte("ops")
	metaBucket = []byte("meta")
	metaKey    = []byte("config")
)

// snapshotMeta records the parameters a simulate run was started with,
// so resuming a snapshot validates it against the flags of the current
// invocation instead of silently reinterpreting a log of operations
// meant for a different replica count.
type snapshotMeta struct {
	Replicas int   `json:"replicas"`
	Seed     int64 `json:"seed"`
}

// openSnapshot opens (creating if absent) the bbolt database backing
// --snapshot, ensuring both buckets exist.
func openSnapshot(path string) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "logootsplitctl: opening snapshot %q", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(opsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "logootsplitctl: initializing snapshot buckets")
	}
	return db, nil
}

// loadSnapshot reads a previously persisted meta record and the full
// ordered operation log, or (nil, nil, nil) if the snapshot is empty —
// i.e. this is the first run against this path.
func loadSnapshot(db *bolt.DB) (*snapshotMeta, []logootsplit.Operation, error) {
	var meta *snapshotMeta
	var ops []logootsplit.Operation

	err := db.View(func(tx *bolt.Tx) error {
		mb := tx.Bucket(metaBucket)
		if raw := mb.Get(metaKey); raw != nil {
			var m snapshotMeta
			if err := json.Unmarshal(raw, &m); err != nil {
				return errors.Wrap(err, "logootsplitctl: decoding snapshot meta")
			}
			meta = &m
		}

		ob := tx.Bucket(opsBucket)
		return ob.ForEach(func(k, v []byte) error {
			op, ok := logootsplit.DecodeOperation(v)
			if !ok {
				return errors.Errorf("logootsplitctl: corrupt operation at snapshot key %x", k)
			}
			ops = append(ops, op)
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return meta, ops, nil
}

// saveSnapshotMeta persists the run's parameters, overwriting any prior
// value (only meaningful on a fresh snapshot; resumed runs validate
// against it instead of rewriting it).
func saveSnapshotMeta(db *bolt.DB, meta snapshotMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(metaKey, raw)
	})
}

// appendOp persists op under the next sequence number in the bucket,
// called once per broadcast operation as the simulation generates it so
// a crash mid-run loses at most the in-flight round.
func appendOp(db *bolt.DB, op logootsplit.Operation) error {
	data, err := logootsplit.EncodeOperation(op)
	if err != nil {
		return errors.Wrap(err, "logootsplitctl: encoding operation for snapshot")
	}
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(opsBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), data)
	})
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func (m snapshotMeta) String() string {
	return fmt.Sprintf("replicas=%d seed=%d", m.Replicas, m.Seed)
}
