package milestone

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequestValidate(t *testing.T) {
	valid := GenerationRequest{ProjectDescription: "Design a logo", TotalAmount: 1000}
	require.NoError(t, valid.Validate())

	invalid := []GenerationRequest{
		{ProjectDescription: "", TotalAmount: 1},
		{ProjectDescription: "\t ", TotalAmount: 1},
		{ProjectDescription: "x", TotalAmount: 0},
		{ProjectDescription: "x", TotalAmount: -0.01},
		{ProjectDescription: "x", TotalAmount: math.NaN()},
		{ProjectDescription: "x", TotalAmount: math.Inf(-1)},
	}
	for _, req := range invalid {
		err := req.Validate()
		assert.Equal(t, KindInvalidInput, KindOf(err), "%+v", req)
	}
}

func TestReconciles(t *testing.T) {
	assert.True(t, Reconciles(1000.005, 1000, DefaultSumTolerance))
	assert.True(t, Reconciles(999.99, 1000, DefaultSumTolerance))
	assert.False(t, Reconciles(1005, 1000, DefaultSumTolerance))
	assert.False(t, Reconciles(0, 1000, DefaultSumTolerance))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 1000.0, Sum([]Milestone{{"a", 300}, {"b", 400}, {"c", 300}}))
}

func TestGenerationErrorUnwrapAndKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("wrapped: %w", NewUpstreamFailure(cause))

	assert.Equal(t, KindUpstreamFailure, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorKind(""), KindOf(cause))

	mismatch := NewSumMismatch(1005, 1000)
	assert.Equal(t, "milestones sum to 1005, expected 1000", mismatch.Detail)
	assert.False(t, mismatch.HasIndex())

	shape := NewUnexpectedShape("[]", 2, "bad")
	assert.True(t, shape.HasIndex())
	assert.Contains(t, shape.Error(), "UnexpectedShape")
}
