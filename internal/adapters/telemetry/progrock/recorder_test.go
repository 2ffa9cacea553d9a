package progrock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ripple/internal/core/domain"
)

func TestNew(t *testing.T) {
	r := New()
	require.NotNil(t, r)
	defer r.Close()

	ctx, span := r.Start(context.Background(), "integrate main.yaml")
	assert.NotNil(t, ctx)
	require.NotNil(t, span)

	span.SetAttribute("result", "affects-downstream")
	_, err := span.Write([]byte("merged 3 nodes\n"))
	assert.NoError(t, err)
	span.End()
}

func TestEmitAffected(t *testing.T) {
	r := New()
	defer r.Close()

	r.EmitAffected(context.Background(), []domain.TaskID{"compile-a", "compile-b"})
}
