package router

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialPageIsLogin(t *testing.T) {
	assert.Equal(t, PageLogin, New().Current())
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from  Page
		event Event
		want  Page
	}{
		{PageLogin, EventLoginSucceeded, PageDashboard},
		{PageDashboard, EventLogout, PageLogin},
		{PageDashboard, EventOpenDetail, PageDetail},
		{PageDashboard, EventOpenWorkspace, PageWorkspace},
		{PageDetail, EventBack, PageDashboard},
		{PageDetail, EventLogout, PageLogin},
		{PageDetail, EventOpenWorkspace, PageWorkspace},
		{PageWorkspace, EventBack, PageDashboard},
		{PageWorkspace, EventLogout, PageLogin},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.event), func(t *testing.T) {
			got, ok := Next(tt.from, tt.event)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatchRejectsIllegalEvent(t *testing.T) {
	r := New()

	page, err := r.Dispatch(EventBack)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTransition))
	assert.Equal(t, PageLogin, page)
	assert.Equal(t, PageLogin, r.Current())

	_, err = r.Dispatch(EventOpenDetail)
	assert.ErrorIs(t, err, ErrNoTransition)
	assert.Equal(t, PageLogin, r.Current())
}

func TestDispatchWalk(t *testing.T) {
	r := New()

	steps := []struct {
		event Event
		want  Page
	}{
		{EventLoginSucceeded, PageDashboard},
		{EventOpenDetail, PageDetail},
		{EventBack, PageDashboard},
		{EventOpenWorkspace, PageWorkspace},
		{EventBack, PageDashboard},
		{EventLogout, PageLogin},
	}
	for _, s := range steps {
		got, err := r.Dispatch(s.event)
		require.NoError(t, err, "event %s", s.event)
		assert.Equal(t, s.want, got)
	}
}

func TestListenersSeeTransitions(t *testing.T) {
	r := New()
	var seen []Transition
	r.OnTransition(func(tr Transition) { seen = append(seen, tr) })

	_, err := r.Dispatch(EventLoginSucceeded)
	require.NoError(t, err)
	_, err = r.Dispatch(EventBack) // rejected, not reported
	require.Error(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, Transition{From: PageLogin, Event: EventLoginSucceeded, To: PageDashboard}, seen[0])
}

func TestListenerMayReadRouter(t *testing.T) {
	r := New()
	var during Page
	r.OnTransition(func(Transition) { during = r.Current() })

	_, err := r.Dispatch(EventLoginSucceeded)
	require.NoError(t, err)
	assert.Equal(t, PageDashboard, during)
}

func TestParseEvent(t *testing.T) {
	e, err := ParseEvent("open_detail")
	require.NoError(t, err)
	assert.Equal(t, EventOpenDetail, e)

	_, err = ParseEvent("teleport")
	assert.Error(t, err)
}

func TestEvents(t *testing.T) {
	assert.Equal(t, []Event{EventLoginSucceeded}, Events(PageLogin))
	assert.ElementsMatch(t, []Event{EventLogout, EventOpenDetail, EventOpenWorkspace}, Events(PageDashboard))
}
