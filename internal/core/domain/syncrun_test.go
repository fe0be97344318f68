package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncStatus_Lifecycle(t *testing.T) {
	assert.True(t, SyncStatusPending.IsActive())
	assert.True(t, SyncStatusRunning.IsActive())
	assert.False(t, SyncStatusCompleted.IsActive())

	assert.True(t, SyncStatusCompleted.IsTerminal())
	assert.True(t, SyncStatusFailed.IsTerminal())
	assert.False(t, SyncStatusRunning.IsTerminal())

	assert.False(t, SyncStatus("BOGUS").IsValid())
}

func TestSyncTrigger_IsValid(t *testing.T) {
	assert.True(t, TriggerManual.IsValid())
	assert.True(t, TriggerScheduled.IsValid())
	assert.True(t, TriggerVersionBump.IsValid())
	assert.False(t, SyncTrigger("other").IsValid())
}
