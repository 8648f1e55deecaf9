package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewControllerStartsOnDashboard(t *testing.T) {
	c := NewController(nil)
	assert.Equal(t, State{View: Dashboard}, c.Snapshot())
}

func TestNavigateRejectsUnknownView(t *testing.T) {
	c := NewController(nil)
	require.NoError(t, c.Navigate(Chat))

	err := c.Navigate(View(7))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidView))
	var invalid *InvalidViewError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "view(7)", invalid.View)
	assert.Equal(t, Chat, c.View(), "state must not change")
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in   string
		want View
		ok   bool
	}{
		{"dashboard", Dashboard, true},
		{" Chat ", Chat, true},
		{"EDITOR", Editor, true},
		{"settings", Dashboard, false},
	}
	for _, tt := range tests {
		got, err := ParseView(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, viewNames[got], got.String())
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidView, tt.in)
	}
}

func TestSelectSlideClampsInEditor(t *testing.T) {
	c := NewController(nil)
	c.SetSlideCount(8)
	require.NoError(t, c.Navigate(Editor))

	assert.Equal(t, 7, c.SelectSlide(42))
	assert.Equal(t, 0, c.SelectSlide(-3))
	assert.Equal(t, 3, c.SelectSlide(3))
}

func TestSelectSlideOutsideEditorOnlyClampsBelow(t *testing.T) {
	c := NewController(nil)
	c.SetSlideCount(8)

	assert.Equal(t, 12, c.SelectSlide(12))
	assert.Equal(t, 0, c.SelectSlide(-1))
}

func TestNavigateToEditorClampsStoredSlide(t *testing.T) {
	c := NewController(nil)
	c.SetSlideCount(4)
	c.SelectSlide(10)

	require.NoError(t, c.Navigate(Editor))
	assert.Equal(t, 3, c.Slide())
}

func TestSlideStepsStopAtBounds(t *testing.T) {
	c := NewController(nil)
	c.SetSlideCount(3)
	require.NoError(t, c.Navigate(Editor))

	assert.True(t, c.AtFirstSlide())
	assert.Equal(t, 0, c.PrevSlide())
	c.NextSlide()
	c.NextSlide()
	assert.Equal(t, 2, c.NextSlide())
	assert.True(t, c.AtLastSlide())
	assert.False(t, c.AtFirstSlide())
}

func TestShrinkingSlideCountClamps(t *testing.T) {
	c := NewController(nil)
	c.SetSlideCount(8)
	require.NoError(t, c.Navigate(Editor))
	c.SelectSlide(6)

	c.SetSlideCount(2)
	assert.Equal(t, 1, c.Slide())
}

func TestStartNewProposalResetsSelection(t *testing.T) {
	c := NewController(nil)
	c.SelectProposal("3")
	c.SetSlideCount(8)
	require.NoError(t, c.Navigate(Editor))
	c.SelectSlide(5)

	c.StartNewProposal()

	assert.Equal(t, State{View: Chat, SlideCount: 8}, c.Snapshot())
}
