//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

func TestWorkflow_RecordSetLifecycle(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)
	name := config.GenerateTestName("it-rrset")

	defer runner.CleanupRecordSet(name, "TXT")

	// 1. Create a record set
	var created clouddns.ResourceRecordSet
	require.NoError(t, runner.RunJSON(&created, "rrsets", "create", name, "TXT", "--ttl", "60", "--rrdata", `"integration"`))
	assert.Equal(t, name, created.Name)

	// 2. It shows up in a filtered listing
	WaitForCondition(t, func() bool {
		var rrsets []clouddns.ResourceRecordSet
		if err := runner.RunJSON(&rrsets, "rrsets", "list", "--name", name, "--type", "TXT"); err != nil {
			return false
		}

		return len(rrsets) == 1
	}, time.Minute, "record set to be listed")

	// 3. Replace it through a change
	changeFile := filepath.Join(t.TempDir(), "change.yaml")
	require.NoError(t, os.WriteFile(changeFile, []byte(`additions:
  - name: `+name+`
    type: TXT
    ttl: 60
    rrdatas: ['"updated"']
deletions:
  - name: `+name+`
    type: TXT
    ttl: 60
    rrdatas: ['"integration"']
`), 0o600))

	var change clouddns.Change
	require.NoError(t, runner.RunJSON(&change, "changes", "create", "-f", changeFile))
	require.NotEmpty(t, change.ID)

	WaitForCondition(t, func() bool {
		var current clouddns.Change
		if err := runner.RunJSON(&current, "changes", "get", change.ID); err != nil {
			return false
		}

		return current.Status == clouddns.ChangeStatusDone
	}, 2*time.Minute, "change to be done")

	// 4. Read back the new data
	var updated clouddns.ResourceRecordSet
	require.NoError(t, runner.RunJSON(&updated, "rrsets", "get", name, "TXT"))
	assert.Equal(t, []string{`"updated"`}, updated.Rrdatas)
}

func TestWorkflow_ReadOnlyCommands(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	runner := NewCommandRunner(config, t)

	var project clouddns.Project
	require.NoError(t, runner.RunJSON(&project, "project", "get"))
	require.NotNil(t, project.Quota)
	assert.NotZero(t, project.Quota.ManagedZones)

	var zone clouddns.ManagedZone
	require.NoError(t, runner.RunJSON(&zone, "zones", "get", config.Zone))
	assert.Equal(t, config.DNSName, zone.DNSName)

	var operations []clouddns.Operation
	require.NoError(t, runner.RunJSON(&operations, "operations", "list"))

	var changes []clouddns.Change
	require.NoError(t, runner.RunJSON(&changes, "changes", "list", "--sort-by", "changeSequence"))
	assert.NotEmpty(t, changes)

	_, _, err := runner.Run("zones", "get", "it-zone-that-does-not-exist")
	require.Error(t, err)
}
