package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/seqcrdt/logootsplit"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// replica bundles one simulated RenamableList with the plain rune
// buffer its owner would show a user, kept in lockstep by replaying
// every TextOp the core emits — exactly what a real editor frontend
// would do with this library.
type replica struct {
	id   uuid.UUID
	list *logootsplit.RenamableList
	buf  []rune
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run N in-process replicas exchanging random operations and check convergence",
		RunE:  runSimulate,
	}

	flags := cmd.Flags()
	flags.Int("replicas", 4, "number of simulated replicas")
	flags.Int64("seed", 1, "PRNG seed driving replica content and scheduling")
	flags.Int("rounds", 200, "number of local operations to generate across all replicas")
	flags.Int("rename-every", 25, "issue a rename after this many rounds, 0 disables renaming")
	flags.String("snapshot", "", "bbolt file to persist and resume simulation state from")

	for _, name := range []string{"replicas", "seed", "rounds", "rename-every", "snapshot"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	n := viper.GetInt("replicas")
	seed := viper.GetInt64("seed")
	rounds := viper.GetInt("rounds")
	renameEvery := viper.GetInt("rename-every")
	snapshotPath := viper.GetString("snapshot")

	if n < 2 {
		return errors.New("logootsplitctl: simulate requires at least 2 replicas")
	}

	replicas := make([]*replica, n)
	for i := range replicas {
		replicas[i] = &replica{
			id:   uuid.New(),
			list: logootsplit.NewRenamableList(int32(i+1), logootsplit.NewSeededInt32Source(uint64(seed)+uint64(i))),
		}
	}

	var db *bolt.DB
	var replayed int
	if snapshotPath != "" {
		var err error
		db, replayed, err = resumeSnapshot(snapshotPath, replicas, n, seed)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	logger.Info("starting simulation",
		zap.Int("replicas", n), zap.Int64("seed", seed), zap.Int("rounds", rounds), zap.Int("resumed_ops", replayed))

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))

	for round := 0; round < rounds; round++ {
		origin := rng.IntN(n)
		var op logootsplit.Operation

		if renameEvery > 0 && round > 0 && round%renameEvery == 0 {
			renameOp := replicas[origin].list.Rename()
			op = logootsplit.Operation{Kind: logootsplit.OpRename, Rename: renameOp}
			logger.Debug("rename", zap.String("replica", replicas[origin].id.String()), zap.Int32("clock", renameOp.Clock))
		} else if len(replicas[origin].buf) == 0 || rng.IntN(3) != 0 {
			content := randomContent(rng, 1+rng.IntN(6))
			pos := rng.IntN(len(replicas[origin].buf) + 1)
			insOp := replicas[origin].list.Insert(int64(pos), content)
			replicas[origin].buf = spliceInsert(replicas[origin].buf, pos, content)
			op = logootsplit.Operation{Kind: logootsplit.OpInsert, Insert: insOp}
		} else {
			begin := rng.IntN(len(replicas[origin].buf))
			end := begin + rng.IntN(len(replicas[origin].buf)-begin)
			delOp := replicas[origin].list.Del(int64(begin), int64(end))
			replicas[origin].buf = spliceDelete(replicas[origin].buf, begin, end)
			op = logootsplit.Operation{Kind: logootsplit.OpDelete, Delete: delOp}
		}

		deliverToOthers(replicas, origin, op, rng)

		if db != nil {
			if err := appendOp(db, op); err != nil {
				return err
			}
		}
	}

	return reportConvergence(cmd, replicas)
}

// deliverToOthers applies op to every replica but its origin, in random
// order, mirroring an unordered broadcast transport.
func deliverToOthers(replicas []*replica, origin int, op logootsplit.Operation, rng *rand.Rand) {
	order := rng.Perm(len(replicas))
	for _, i := range order {
		if i == origin {
			continue
		}
		textOps := op.Apply(replicas[i].list)
		replicas[i].buf = applyTextOps(replicas[i].buf, textOps)
	}
}

func applyTextOps(buf []rune, ops []logootsplit.TextOp) []rune {
	for _, op := range ops {
		switch op.Kind {
		case logootsplit.TextInsert:
			buf = spliceInsert(buf, int(op.Index), op.Content)
		case logootsplit.TextDelete:
			buf = spliceDelete(buf, int(op.Index), int(op.Index)+int(op.Length)-1)
		}
	}
	return buf
}

func spliceInsert(buf []rune, pos int, content string) []rune {
	runes := []rune(content)
	out := make([]rune, 0, len(buf)+len(runes))
	out = append(out, buf[:pos]...)
	out = append(out, runes...)
	out = append(out, buf[pos:]...)
	return out
}

func spliceDelete(buf []rune, begin, end int) []rune {
	return append(buf[:begin:begin], buf[end+1:]...)
}

func randomContent(rng *rand.Rand, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = rune(alphabet[rng.IntN(len(alphabet))])
	}
	return string(out)
}

// reportConvergence asserts every replica materialized the same text
// (spec.md's linearization-independence property) and dumps the first
// replica's rope tree for inspection.
func reportConvergence(cmd *cobra.Command, replicas []*replica) error {
	want := string(replicas[0].buf)
	for i, r := range replicas {
		got := string(r.buf)
		if got != want {
			return errors.Errorf("logootsplitctl: replica %d (%s) diverged from replica 0: %q != %q", i, r.id, got, want)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "converged: %d replicas agree on %d characters\n", len(replicas), len(want))
	fmt.Fprintln(out, "---")
	return replicas[0].list.FprintTree(out)
}

// resumeSnapshot opens the snapshot at path, validates it against the
// current run's parameters, replays every previously logged operation
// into each fresh replica, and returns the open database (for further
// appends) and how many operations were replayed.
func resumeSnapshot(path string, replicas []*replica, n int, seed int64) (*bolt.DB, int, error) {
	db, err := openSnapshot(path)
	if err != nil {
		return nil, 0, err
	}

	meta, ops, err := loadSnapshot(db)
	if err != nil {
		db.Close()
		return nil, 0, err
	}

	if meta == nil {
		if err := saveSnapshotMeta(db, snapshotMeta{Replicas: n, Seed: seed}); err != nil {
			db.Close()
			return nil, 0, err
		}
	} else if meta.Replicas != n {
		db.Close()
		return nil, 0, errors.Errorf("logootsplitctl: snapshot was created with %d replicas, got --replicas=%d", meta.Replicas, n)
	}

	for _, op := range ops {
		for _, r := range replicas {
			r.buf = applyTextOps(r.buf, op.Apply(r.list))
		}
	}

	return db, len(ops), nil
}
