package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

func TestOpenNode(t *testing.T) {
	t.Run("opens a known node", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		s := newTestSession(t, fake)
		defer s.Close()

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		assert.Equal(t, "node1", n.Name())
		require.NoError(t, n.Close())
	})

	t.Run("maps an unknown name to ObjectNotFound", func(t *testing.T) {
		fake := winapi.NewFake()
		s := newTestSession(t, fake)
		defer s.Close()

		_, err := s.OpenNode("NoSuchNode")
		require.Error(t, err)
		assert.True(t, clerr.IsCode(err, clerr.ErrObjectNotFound))

		var cerr *clerr.ClusterError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "NoSuchNode", cerr.Object)
	})
}

func TestNodeState(t *testing.T) {
	tests := []struct {
		name   string
		native int32
		want   NodeState
		render string
	}{
		{"up", winapi.NodeStateUp, NodeUp, "Up"},
		{"down", winapi.NodeStateDown, NodeDown, "Down"},
		{"paused", winapi.NodeStatePaused, NodePaused, "Paused"},
		{"joining", winapi.NodeStateJoining, NodeJoining, "Joining"},
		{"unknown", winapi.NodeStateUnknown, NodeUnknown, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := winapi.NewFake()
			fake.AddNode("node1", tt.native)
			s := newTestSession(t, fake)
			defer s.Close()

			n, err := s.OpenNode("node1")
			require.NoError(t, err)
			defer n.Close()

			state, err := n.State()
			require.NoError(t, err)
			assert.Equal(t, tt.want, state)
			assert.Equal(t, tt.render, state.String())
		})
	}
}

func TestNodePauseResume(t *testing.T) {
	t.Run("pause then resume transitions the state", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddNode("node1", winapi.NodeStateUp)
		s := newTestSession(t, fake)
		defer s.Close()

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		defer n.Close()

		require.NoError(t, n.Pause())
		state, err := n.State()
		require.NoError(t, err)
		assert.Equal(t, NodePaused, state)

		require.NoError(t, n.Resume())
		state, err = n.State()
		require.NoError(t, err)
		assert.Equal(t, NodeUp, state)

		assert.Equal(t, 1, scripted.PauseCalls)
		assert.Equal(t, 1, scripted.ResumeCalls)
	})

	t.Run("pausing an already paused node succeeds", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddNode("node1", winapi.NodeStateUp)
		s := newTestSession(t, fake)
		defer s.Close()

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		defer n.Close()

		require.NoError(t, n.Pause())
		require.NoError(t, n.Pause())

		state, err := n.State()
		require.NoError(t, err)
		assert.Equal(t, NodePaused, state)
		assert.Equal(t, 2, scripted.PauseCalls)
	})

	t.Run("passes the native status through on failure", func(t *testing.T) {
		fake := winapi.NewFake()
		scripted := fake.AddNode("node1", winapi.NodeStatePaused)
		scripted.PauseStatus = winapi.ErrorGenFailure
		s := newTestSession(t, fake)
		defer s.Close()

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		defer n.Close()

		err = n.Pause()
		require.Error(t, err)
		assert.True(t, clerr.IsCode(err, clerr.ErrNativeCallFailed))

		var cerr *clerr.ClusterError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, winapi.ErrorGenFailure, cerr.Status)
		assert.Equal(t, "node1", cerr.Object)
	})
}

func TestNodeGuards(t *testing.T) {
	t.Run("operations fail after the session closes", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		s := newTestSession(t, fake)

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		require.NoError(t, s.Close())

		_, err = n.State()
		assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))
		assert.True(t, clerr.IsCode(n.Pause(), clerr.ErrSessionClosed))
		assert.True(t, clerr.IsCode(n.Resume(), clerr.ErrSessionClosed))

		// the node is still individually closeable
		require.NoError(t, n.Close())
		assert.Equal(t, 0, fake.OpenHandleCount())
		assert.Equal(t, 0, fake.DoubleCloses())
	})

	t.Run("operations fail after the node closes", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		s := newTestSession(t, fake)
		defer s.Close()

		n, err := s.OpenNode("node1")
		require.NoError(t, err)
		require.NoError(t, n.Close())
		require.NoError(t, n.Close())

		_, err = n.State()
		assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))
		assert.Equal(t, 0, fake.DoubleCloses())
	})
}
