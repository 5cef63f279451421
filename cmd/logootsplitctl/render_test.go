package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqcrdt/logootsplit"
)

func TestRunRenderAppliesInsertsAndDeletesInOrder(t *testing.T) {
	base := logootsplit.NewIdentifier(logootsplit.Tuple{Random: 10, ReplicaNumber: 1, Clock: 0, Offset: 0})
	insOp := logootsplit.Operation{
		Kind: logootsplit.OpInsert,
		Insert: logootsplit.RenamableInsertOp{
			Inner: logootsplit.InsertOp{ID: logootsplit.NewIdentifierInterval(base, 0, 4), Content: "Hello"},
		},
	}
	delOp := logootsplit.Operation{
		Kind: logootsplit.OpDelete,
		Delete: logootsplit.RenamableDeleteOp{
			Inner: logootsplit.DelOp{Intervals: []logootsplit.IdentifierInterval{
				logootsplit.NewIdentifierInterval(base, 1, 2),
			}},
		},
	}

	insData, err := logootsplit.EncodeOperation(insOp)
	require.NoError(t, err)
	delData, err := logootsplit.EncodeOperation(delOp)
	require.NoError(t, err)

	input := bytes.NewReader(append(append(insData, '\n'), delData...))
	var out bytes.Buffer

	require.NoError(t, runRender(&out, input, 1))

	rendered := out.String()
	assert.True(t, strings.Contains(rendered, "insert @0 \"Hello\""))
	assert.True(t, strings.Contains(rendered, "delete @1 len=2"))
	assert.True(t, strings.HasSuffix(strings.TrimRight(rendered, "\n"), "Hlo"))
}

func TestRunRenderRejectsMalformedOperation(t *testing.T) {
	input := strings.NewReader(`{"kind":"bogus"}`)
	var out bytes.Buffer
	err := runRender(&out, input, 1)
	assert.Error(t, err)
}
