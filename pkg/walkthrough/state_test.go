package walkthrough

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/ui"
)

func threeSteps() *domain.Tour {
	return &domain.Tour{
		ID: "t",
		Steps: []domain.Step{
			domain.VisibleComponent{Title: "one"},
			domain.VisibleComponent{Title: "two"},
			domain.VisibleComponent{Title: "three"},
		},
	}
}

func TestState_Navigation(t *testing.T) {
	s := NewState(threeSteps())
	var changes []Change
	s.OnChange(func(c Change) { changes = append(changes, c) })

	assert.Equal(t, 0, s.CurrentStepIndex())
	assert.Equal(t, "one", s.Current().StepTitle())

	require.NoError(t, s.GoToStep(2))
	require.NoError(t, s.GoToStep(1))
	assert.Equal(t, []Change{
		{Kind: ChangeStep, From: 0, Index: 2},
		{Kind: ChangeStep, From: 2, Index: 1},
	}, changes)

	err := s.GoToStep(3)
	assert.ErrorIs(t, err, domain.ErrStepOutOfRange)
	assert.ErrorIs(t, s.GoToStep(-1), domain.ErrStepOutOfRange)
	assert.Nil(t, s.StepAt(3))
}

func TestState_TerminalOnce(t *testing.T) {
	s := NewState(threeSteps())
	ends := 0
	s.OnChange(func(c Change) {
		if c.Kind != ChangeStep {
			ends++
		}
	})

	s.Quit()
	s.Quit()
	s.Complete()
	assert.Equal(t, 1, ends)
	assert.Equal(t, domain.StatusQuit, s.Status())
	assert.True(t, s.Terminal())
	assert.ErrorIs(t, s.GoToStep(0), domain.ErrTourFinished)
}

func TestState_UnsubscribeDuringNotify(t *testing.T) {
	s := NewState(threeSteps())
	calls := 0

	var first ui.Subscription
	first = s.OnChange(func(Change) {
		calls++
		first.Cancel()
	})
	s.OnChange(func(Change) { calls++ })

	require.NoError(t, s.GoToStep(1))
	require.NoError(t, s.GoToStep(2))
	assert.Equal(t, 3, calls)
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "step", ChangeStep.String())
	assert.Equal(t, "complete", ChangeComplete.String())
	assert.Equal(t, "quit", ChangeQuit.String())
	assert.Equal(t, "ChangeKind(9)", ChangeKind(9).String())
}
