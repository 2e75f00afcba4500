package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canon-tui/internal/ref"
)

func TestDiathekeUnavailableBinary(t *testing.T) {
	p := NewDiatheke(WithBinary("no-such-binary-for-testing"))
	assert.False(t, p.Available())

	_, err := p.Fetch(context.Background(), "KJV", ref.Single(ref.Address{Book: "Genesis", Chapter: 1, Verse: 1}))
	require.Error(t, err)
	assert.Equal(t, ProcessFailure, KindOf(err))
}

func TestErrorClassification(t *testing.T) {
	rng := ref.Single(ref.Address{Book: "Genesis", Chapter: 1, Verse: 1})

	empty := &Error{Kind: EmptyResult, Module: "KJV", Range: rng}
	assert.True(t, IsEmpty(empty))
	assert.Equal(t, EmptyResult, KindOf(empty))

	timeout := &Error{Kind: Timeout, Module: "KJV", Range: rng, Err: context.DeadlineExceeded}
	assert.False(t, IsEmpty(timeout))
	assert.Equal(t, Timeout, KindOf(timeout))
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)
	assert.Contains(t, timeout.Error(), "Genesis 1:1")

	assert.Equal(t, ProcessFailure, KindOf(assert.AnError))
	assert.False(t, IsEmpty(nil))
}
