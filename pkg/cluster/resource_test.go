package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

func openTestResource(t *testing.T, s *Session, name string) *Resource {
	t.Helper()
	r, err := s.OpenResource(name)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestOpenResource(t *testing.T) {
	fake := winapi.NewFake()
	s := newTestSession(t, fake)
	defer s.Close()

	_, err := s.OpenResource("NoSuchResource")
	require.Error(t, err)
	assert.True(t, clerr.IsCode(err, clerr.ErrObjectNotFound))

	var cerr *clerr.ClusterError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "NoSuchResource", cerr.Object)
}

func TestResourceState(t *testing.T) {
	t.Run("state and owner come from one query", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddResource("res1", winapi.ResourceStateOnline, "node1")
		// Two scripted instants. A binding that issued separate state and
		// owner queries would pair values across them.
		scripted.StateSeq = []winapi.StateOwner{
			{State: winapi.ResourceStateOnline, Owner: "node1"},
			{State: winapi.ResourceStateOffline, Owner: "node2"},
		}
		s := newTestSession(t, fake)
		defer s.Close()
		r := openTestResource(t, s, "res1")

		state, owner, err := r.State()
		require.NoError(t, err)
		assert.Equal(t, ResourceOnline, state)
		assert.Equal(t, "node1", owner)

		state, owner, err = r.State()
		require.NoError(t, err)
		assert.Equal(t, ResourceOffline, state)
		assert.Equal(t, "node2", owner)

		assert.Equal(t, 2, fake.CallCount("GetClusterResourceState"))
	})

	t.Run("unknown state is a value, not an error", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddResource("res1", winapi.ResourceStateUnknown, "node1")
		s := newTestSession(t, fake)
		defer s.Close()
		r := openTestResource(t, s, "res1")

		state, owner, err := r.State()
		require.NoError(t, err)
		assert.Equal(t, ResourceUnknown, state)
		assert.Empty(t, owner)
	})

	t.Run("renders every named state", func(t *testing.T) {
		tests := []struct {
			state ResourceState
			want  string
		}{
			{ResourceInitializing, "Initializing"},
			{ResourceOnline, "Online"},
			{ResourceOffline, "Offline"},
			{ResourceFailed, "Failed"},
			{ResourceOnlinePending, "OnlinePending"},
			{ResourceOfflinePending, "OfflinePending"},
			{ResourceUnknown, "Unknown"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, tt.state.String())
		}
	})
}

func TestResourceTransitions(t *testing.T) {
	t.Run("online and offline accept a pending status", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddResource("res1", winapi.ResourceStateOffline, "node1")
		scripted.OnlineStatus = winapi.ErrorIOPending
		scripted.OfflineStatus = winapi.ErrorIOPending
		s := newTestSession(t, fake)
		defer s.Close()
		r := openTestResource(t, s, "res1")

		assert.NoError(t, r.Online())
		assert.NoError(t, r.Offline())
	})

	t.Run("surfaces a real transition failure", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddResource("res1", winapi.ResourceStateOffline, "node1")
		scripted.OnlineStatus = winapi.ErrorGenFailure
		s := newTestSession(t, fake)
		defer s.Close()
		r := openTestResource(t, s, "res1")

		err := r.Online()
		require.Error(t, err)
		assert.True(t, clerr.IsCode(err, clerr.ErrNativeCallFailed))
	})
}

func TestResourceGuards(t *testing.T) {
	fake := winapi.NewFake()
	fake.AddResource("res1", winapi.ResourceStateOnline, "node1")
	s := newTestSession(t, fake)

	r, err := s.OpenResource("res1")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = r.State()
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))
	assert.True(t, clerr.IsCode(r.Online(), clerr.ErrSessionClosed))
	assert.True(t, clerr.IsCode(r.Offline(), clerr.ErrSessionClosed))

	require.NoError(t, r.Close())
	assert.Equal(t, 0, fake.OpenHandleCount())
}
