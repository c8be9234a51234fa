package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-maker/internal/models"
)

func TestJobTracker_UnknownKeyReportsPlaceholder(t *testing.T) {
	snapshot := NewJobTracker().Snapshot("Role_1")

	assert.Equal(t, models.JobRunning, snapshot.Status)
	assert.Equal(t, []string{PlaceholderMessage}, snapshot.Messages)
	assert.Empty(t, snapshot.Filename)
}

func TestJobTracker_Lifecycle(t *testing.T) {
	tracker := NewJobTracker()
	require.NoError(t, tracker.Start("Role_1"))

	assert.Equal(t, []string{PlaceholderMessage}, tracker.Snapshot("Role_1").Messages)

	tracker.Append("Role_1", MsgStarting)
	tracker.Append("Role_1", MsgCallingLLM)
	running := tracker.Snapshot("Role_1")
	assert.Equal(t, models.JobRunning, running.Status)
	assert.Equal(t, []string{MsgStarting, MsgCallingLLM}, running.Messages)

	tracker.Complete("Role_1", "Jane_Doe_Resume.pdf")
	ready := tracker.Snapshot("Role_1")
	assert.Equal(t, models.JobReady, ready.Status)
	assert.Equal(t, "Jane_Doe_Resume.pdf", ready.Filename)

	// terminal: later updates are ignored
	tracker.Append("Role_1", "late")
	tracker.Fail("Role_1", errors.New("late failure"))
	after := tracker.Snapshot("Role_1")
	assert.Equal(t, models.JobReady, after.Status)
	assert.Len(t, after.Messages, 2)
	assert.Empty(t, after.Error)
}

func TestJobTracker_Fail(t *testing.T) {
	tracker := NewJobTracker()
	require.NoError(t, tracker.Start("Role_2"))
	tracker.Append("Role_2", MsgStarting)
	tracker.Fail("Role_2", errors.New("upstream down"))

	snapshot := tracker.Snapshot("Role_2")
	assert.Equal(t, models.JobFailed, snapshot.Status)
	assert.Equal(t, "upstream down", snapshot.Error)
	assert.Equal(t, []string{MsgStarting}, snapshot.Messages)
	assert.False(t, tracker.HasRunning())
}

func TestJobTracker_StartRejectsRunningAndRestartsFinished(t *testing.T) {
	tracker := NewJobTracker()
	require.NoError(t, tracker.Start("Role_1"))
	assert.ErrorIs(t, tracker.Start("Role_1"), ErrJobAlreadyRunning)
	assert.True(t, tracker.HasRunning())

	tracker.Append("Role_1", MsgStarting)
	tracker.Complete("Role_1", "a.pdf")
	require.NoError(t, tracker.Start("Role_1"))

	snapshot := tracker.Snapshot("Role_1")
	assert.Equal(t, models.JobRunning, snapshot.Status)
	assert.Equal(t, []string{PlaceholderMessage}, snapshot.Messages)
	assert.Empty(t, snapshot.Filename)
}

func TestJobTracker_SnapshotIsACopy(t *testing.T) {
	tracker := NewJobTracker()
	require.NoError(t, tracker.Start("k"))
	tracker.Append("k", "one")

	snapshot := tracker.Snapshot("k")
	snapshot.Messages[0] = "changed"
	assert.Equal(t, "one", tracker.Snapshot("k").Messages[0])
}

func TestJobTracker_ConcurrentAppends(t *testing.T) {
	tracker := NewJobTracker()
	require.NoError(t, tracker.Start("k"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tracker.Append("k", fmt.Sprintf("msg %d", i))
			_ = tracker.Snapshot("k")
		}(i)
	}
	wg.Wait()

	assert.Len(t, tracker.Snapshot("k").Messages, 50)
}
