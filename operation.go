package logootsplit

import (
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// logger is the package's boundary logger (spec.md §7: log-and-drop
// malformed payloads at the transport boundary). The core algorithms
// never call it; only this codec does. Defaults to a no-op so importing
// the package incurs no logging unless a caller opts in.
var logger *zap.Logger = zap.NewNop()

// SetLogger installs the logger used to report dropped/malformed
// operation payloads.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// OperationKind tags which of the three payload shapes an Operation
// carries (spec.md §9's "replace dynamic dispatch with a tagged
// variant").
type OperationKind uint8

const (
	OpInsert OperationKind = iota
	OpDelete
	OpRename
)

// Operation is the tagged variant over the three wire payloads
// (spec.md §6): exactly one of Insert/Delete/Rename is meaningful,
// selected by Kind.
type Operation struct {
	Kind   OperationKind
	Insert RenamableInsertOp
	Delete RenamableDeleteOp
	Rename RenameOp
}

// Apply dispatches op to the appropriate RenamableList method,
// returning the text-buffer operations to perform (nil for a rename,
// which has no direct text-buffer effect).
func (op Operation) Apply(rl *RenamableList) []TextOp {
	switch op.Kind {
	case OpInsert:
		return rl.ApplyInsert(op.Insert)
	case OpDelete:
		return rl.ApplyDelete(op.Delete)
	case OpRename:
		rl.ApplyRename(op.Rename)
		return nil
	default:
		panicf("operation: unknown kind %d", op.Kind)
		return nil
	}
}

// --- wire encoding (spec.md §6, §7.2) ---
//
// Every wire struct mirrors the spec's JSON shape exactly and decodes
// into int64 first so out-of-int32-range numbers are rejected instead
// of silently truncated.

type tupleWire struct {
	Random        int64 `json:"random"`
	ReplicaNumber int64 `json:"replicaNumber"`
	Clock         int64 `json:"clock"`
	Offset        int64 `json:"offset"`
}

func (w tupleWire) toTuple() (Tuple, bool) {
	r, ok1 := toInt32(w.Random)
	p, ok2 := toInt32(w.ReplicaNumber)
	c, ok3 := toInt32(w.Clock)
	o, ok4 := toInt32(w.Offset)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Tuple{}, false
	}
	return Tuple{Random: r, ReplicaNumber: p, Clock: c, Offset: o}, true
}

func tupleToWire(t Tuple) tupleWire {
	return tupleWire{Random: int64(t.Random), ReplicaNumber: int64(t.ReplicaNumber), Clock: int64(t.Clock), Offset: int64(t.Offset)}
}

type identifierIntervalWire struct {
	Base  []tupleWire `json:"base"`
	Begin int64       `json:"begin"`
	End   int64       `json:"end"`
}

func (w identifierIntervalWire) toInterval() (IdentifierInterval, bool) {
	if len(w.Base) == 0 {
		return IdentifierInterval{}, false
	}
	base := make(Identifier, len(w.Base))
	for i, tw := range w.Base {
		t, ok := tw.toTuple()
		if !ok {
			return IdentifierInterval{}, false
		}
		base[i] = t
	}
	begin, ok1 := toInt32(w.Begin)
	end, ok2 := toInt32(w.End)
	if !ok1 || !ok2 || begin > end {
		return IdentifierInterval{}, false
	}
	return IdentifierInterval{Base: base, Begin: begin, End: end}, true
}

func intervalToWire(iv IdentifierInterval) identifierIntervalWire {
	base := make([]tupleWire, len(iv.Base))
	for i, t := range iv.Base {
		base[i] = tupleToWire(t)
	}
	return identifierIntervalWire{Base: base, Begin: int64(iv.Begin), End: int64(iv.End)}
}

type epochIDWire struct {
	ReplicaNumber int64 `json:"replicaNumber"`
	Clock         int64 `json:"clock"`
}

func (w epochIDWire) toEpochID() (EpochID, bool) {
	r, ok1 := toInt32(w.ReplicaNumber)
	c, ok2 := toInt32(w.Clock)
	if !ok1 || !ok2 {
		return EpochID{}, false
	}
	return EpochID{ReplicaNumber: r, Clock: c}, true
}

func epochIDToWire(id EpochID) epochIDWire {
	return epochIDWire{ReplicaNumber: int64(id.ReplicaNumber), Clock: int64(id.Clock)}
}

func toInt32(v int64) (int32, bool) {
	if v < int64(Int32Bottom) || v > int64(Int32Top) {
		return 0, false
	}
	return int32(v), true
}

type envelopeWire struct {
	Kind string `json:"kind"`
}

type insertWire struct {
	ID      identifierIntervalWire `json:"id"`
	Content string                 `json:"content"`
	Epoch   epochIDWire            `json:"epoch"`
}

type deleteWire struct {
	LID   []identifierIntervalWire `json:"lid"`
	Epoch epochIDWire              `json:"epoch"`
}

type renameWire struct {
	ReplicaNumber      int64                    `json:"replicaNumber"`
	Clock              int64                    `json:"clock"`
	Epoch              epochIDWire              `json:"epoch"`
	ParentEpoch        epochIDWire              `json:"parentEpoch"`
	RenamedIdIntervals []identifierIntervalWire `json:"renamedIdIntervals"`
}

// EncodeOperation renders op in the wire shape fixed by spec.md §6.
func EncodeOperation(op Operation) ([]byte, error) {
	switch op.Kind {
	case OpInsert:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			insertWire
		}{Kind: "insert", insertWire: insertWire{
			ID:      intervalToWire(op.Insert.Inner.ID),
			Content: op.Insert.Inner.Content,
			Epoch:   epochIDToWire(op.Insert.Epoch),
		}})
	case OpDelete:
		lid := make([]identifierIntervalWire, len(op.Delete.Inner.Intervals))
		for i, iv := range op.Delete.Inner.Intervals {
			lid[i] = intervalToWire(iv)
		}
		return json.Marshal(struct {
			Kind string `json:"kind"`
			deleteWire
		}{Kind: "delete", deleteWire: deleteWire{LID: lid, Epoch: epochIDToWire(op.Delete.Epoch)}})
	case OpRename:
		intervals := make([]identifierIntervalWire, len(op.Rename.RenamedIdIntervals))
		for i, iv := range op.Rename.RenamedIdIntervals {
			intervals[i] = intervalToWire(iv)
		}
		return json.Marshal(struct {
			Kind string `json:"kind"`
			renameWire
		}{Kind: "rename", renameWire: renameWire{
			ReplicaNumber:      int64(op.Rename.ReplicaNumber),
			Clock:              int64(op.Rename.Clock),
			Epoch:              epochIDToWire(op.Rename.Epoch),
			ParentEpoch:        epochIDToWire(op.Rename.ParentEpoch),
			RenamedIdIntervals: intervals,
		}})
	default:
		return nil, errors.Errorf("operation: unknown kind %d", op.Kind)
	}
}

// DecodeOperation parses data into an Operation per spec.md §7.2:
// malformed payloads (bad shape, wrong kind, out-of-int32 values) are
// logged and rejected by returning ok=false without touching any
// replica state; they never produce a partially populated Operation.
func DecodeOperation(data []byte) (op Operation, ok bool) {
	var env envelopeWire
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Warn("logootsplit: dropping malformed operation payload", zap.Error(errors.WithStack(err)))
		return Operation{}, false
	}

	switch env.Kind {
	case "insert":
		var w insertWire
		if err := json.Unmarshal(data, &w); err != nil {
			logger.Warn("logootsplit: dropping malformed insert payload", zap.Error(errors.WithStack(err)))
			return Operation{}, false
		}
		iv, okIv := w.ID.toInterval()
		epoch, okEpoch := w.Epoch.toEpochID()
		if !okIv || !okEpoch || w.Content == "" {
			logger.Warn("logootsplit: rejecting insert payload out of contract")
			return Operation{}, false
		}
		return Operation{Kind: OpInsert, Insert: RenamableInsertOp{Inner: InsertOp{ID: iv, Content: w.Content}, Epoch: epoch}}, true

	case "delete":
		var w deleteWire
		if err := json.Unmarshal(data, &w); err != nil {
			logger.Warn("logootsplit: dropping malformed delete payload", zap.Error(errors.WithStack(err)))
			return Operation{}, false
		}
		epoch, okEpoch := w.Epoch.toEpochID()
		if !okEpoch || len(w.LID) == 0 {
			logger.Warn("logootsplit: rejecting delete payload out of contract")
			return Operation{}, false
		}
		intervals := make([]IdentifierInterval, len(w.LID))
		for i, ivw := range w.LID {
			iv, okIv := ivw.toInterval()
			if !okIv {
				logger.Warn("logootsplit: rejecting delete payload with malformed interval")
				return Operation{}, false
			}
			intervals[i] = iv
		}
		return Operation{Kind: OpDelete, Delete: RenamableDeleteOp{Inner: DelOp{Intervals: intervals}, Epoch: epoch}}, true

	case "rename":
		var w renameWire
		if err := json.Unmarshal(data, &w); err != nil {
			logger.Warn("logootsplit: dropping malformed rename payload", zap.Error(errors.WithStack(err)))
			return Operation{}, false
		}
		replicaNumber, ok1 := toInt32(w.ReplicaNumber)
		clock, ok2 := toInt32(w.Clock)
		epoch, ok3 := w.Epoch.toEpochID()
		parentEpoch, ok4 := w.ParentEpoch.toEpochID()
		if !ok1 || !ok2 || !ok3 || !ok4 || len(w.RenamedIdIntervals) == 0 {
			logger.Warn("logootsplit: rejecting rename payload out of contract")
			return Operation{}, false
		}
		intervals := make([]IdentifierInterval, len(w.RenamedIdIntervals))
		for i, ivw := range w.RenamedIdIntervals {
			iv, okIv := ivw.toInterval()
			if !okIv {
				logger.Warn("logootsplit: rejecting rename payload with malformed interval")
				return Operation{}, false
			}
			intervals[i] = iv
		}
		return Operation{Kind: OpRename, Rename: RenameOp{
			ReplicaNumber: replicaNumber, Clock: clock, Epoch: epoch, ParentEpoch: parentEpoch, RenamedIdIntervals: intervals,
		}}, true

	default:
		logger.Warn("logootsplit: dropping operation payload with unknown kind", zap.String("kind", env.Kind))
		return Operation{}, false
	}
}
