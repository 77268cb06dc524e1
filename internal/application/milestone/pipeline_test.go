package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "freelance-invoice-api/internal/domain/milestone"
)

func TestProcess_PreservesOrderAndNames(t *testing.T) {
	raw := `[{"name":" Kickoff ","amount":100.5},{"name":"Build","amount":899.5,"note":"ignored"}]`
	got, err := process(raw, 1000, domain.DefaultSumTolerance)
	require.NoError(t, err)
	assert.Equal(t, []domain.Milestone{
		{Name: " Kickoff ", Amount: 100.5},
		{Name: "Build", Amount: 899.5},
	}, got)
}

func TestProcess_StopsAtFirstViolation(t *testing.T) {
	raw := `[{"name":"A","amount":"x"},{"amount":1}]`
	_, err := process(raw, 1000, domain.DefaultSumTolerance)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.KindUnexpectedShape, genErr.Kind)
	assert.Equal(t, 0, genErr.Index)
}

func TestProcess_ScalarJSONIsUnexpectedShape(t *testing.T) {
	for _, raw := range []string{`"milestones"`, `1000`, `null`, `true`} {
		_, err := process(raw, 1000, domain.DefaultSumTolerance)
		assert.Equal(t, domain.KindUnexpectedShape, domain.KindOf(err), raw)
	}
}

func TestProcess_AmountOverflowIsNotFinite(t *testing.T) {
	_, err := process(`[{"name":"A","amount":1e400}]`, 1000, domain.DefaultSumTolerance)
	assert.Equal(t, domain.KindUnexpectedShape, domain.KindOf(err))
}

func TestProcess_SumOverflowIsUnexpectedShape(t *testing.T) {
	raw := `[{"name":"A","amount":1.7e308},{"name":"B","amount":1.7e308},{"name":"C","amount":1}]`
	_, err := process(raw, 1000, domain.DefaultSumTolerance)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.KindUnexpectedShape, genErr.Kind)
	assert.Equal(t, 1, genErr.Index)
	assert.Contains(t, genErr.Error(), "overflow")
}
