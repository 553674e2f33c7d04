package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

func TestManagedZoneOperationsClient(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case projectPath + "managedZones/zone-1/operations":
			assert.Equal(t, "startTime", r.URL.Query().Get("sortBy"))

			writeJSON(t, w, clouddns.ManagedZoneOperationsListResponse{
				Operations: []clouddns.Operation{
					{ID: "op-1", Status: "done", Type: "UPDATE"},
					{ID: "op-2", Status: "pending", Type: "UPDATE"},
				},
			})
		case projectPath + "managedZones/zone-1/operations/op-1":
			writeJSON(t, w, clouddns.Operation{
				ID:     "op-1",
				Status: "done",
				DNSKeyContext: &clouddns.DNSKeyContext{
					NewValue: &clouddns.DNSKey{ID: "3", IsActive: true},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	operations := client.ManagedZoneOperations()
	ctx := context.Background()

	list, err := operations.List(ctx, "zone-1", &clouddns.ListOptions{SortBy: "startTime"})
	require.NoError(t, err)
	require.Len(t, list.Operations, 2)
	assert.Equal(t, "pending", list.Operations[1].Status)

	op, err := operations.Get(ctx, "zone-1", "op-1")
	require.NoError(t, err)
	require.NotNil(t, op.DNSKeyContext)
	assert.True(t, op.DNSKeyContext.NewValue.IsActive)
}
