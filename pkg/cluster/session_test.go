package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusproject/clus/internal/winapi"
	clerr "github.com/clusproject/clus/pkg/cluster/errors"
)

func newTestSession(t *testing.T, fake *winapi.Fake) *Session {
	t.Helper()
	s, err := OpenWith(fake, "")
	require.NoError(t, err)
	return s
}

func TestOpenWith(t *testing.T) {
	t.Run("succeeds against a reachable cluster", func(t *testing.T) {
		fake := winapi.NewFake()
		s, err := OpenWith(fake, "PRODCLUS")
		require.NoError(t, err)
		assert.False(t, s.Closed())
		assert.Equal(t, 1, fake.OpenHandleCount())
		require.NoError(t, s.Close())
		assert.Equal(t, 0, fake.OpenHandleCount())
	})

	t.Run("maps a failed connect to ConnectionFailed", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorGenFailure

		_, err := OpenWith(fake, "PRODCLUS")
		require.Error(t, err)
		assert.True(t, clerr.IsCode(err, clerr.ErrConnectionFailed))

		var cerr *clerr.ClusterError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, winapi.ErrorGenFailure, cerr.Status)
	})

	t.Run("maps the unsupported sentinel to UnsupportedPlatform", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.FailOps["OpenCluster"] = winapi.ErrorCallNotImplemented

		_, err := OpenWith(fake, "")
		assert.True(t, clerr.IsCode(err, clerr.ErrUnsupportedPlatform))
	})

	t.Run("rejects a name with an interior NUL", func(t *testing.T) {
		fake := winapi.NewFake()
		_, err := OpenWith(fake, "bad\x00name")
		assert.True(t, clerr.IsCode(err, clerr.ErrInvalidUTF16))
		assert.Equal(t, 0, fake.CallCount("OpenCluster"))
	})
}

func TestSessionName(t *testing.T) {
	fake := winapi.NewFake()
	fake.ClusterName = "PRODCLUS"
	s := newTestSession(t, fake)
	defer s.Close()

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "PRODCLUS", name)

	// probe then fill
	assert.Equal(t, 2, fake.CallCount("GetClusterInformation"))
}

// fillCountCalls records the capacity handed to each fill call, the ones
// made with a non-nil buffer.
type fillCountCalls struct {
	*winapi.Fake
	nameFills []uint32
	enumFills []uint32
}

func (c *fillCountCalls) GetClusterInformation(h winapi.Handle, name []uint16, size *uint32) uint32 {
	if name != nil {
		c.nameFills = append(c.nameFills, *size)
	}
	return c.Fake.GetClusterInformation(h, name, size)
}

func (c *fillCountCalls) ClusterEnum(enum winapi.Handle, index uint32, objectType *uint32, name []uint16, size *uint32) uint32 {
	if name != nil {
		c.enumFills = append(c.enumFills, *size)
	}
	return c.Fake.ClusterEnum(enum, index, objectType, name, size)
}

func TestFillCapacityIncludesTerminator(t *testing.T) {
	fake := winapi.NewFake()
	fake.ClusterName = "PRODCLUS"
	fake.AddNode("node1", winapi.NodeStateUp)
	fake.AddNode("longnodename2", winapi.NodeStateUp)
	calls := &fillCountCalls{Fake: fake}

	s, err := OpenWith(calls, "")
	require.NoError(t, err)
	defer s.Close()

	name, err := s.Name()
	require.NoError(t, err)
	assert.Equal(t, "PRODCLUS", name)

	nodes, err := s.Nodes()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	closeAll(nodes)

	// each fill declares room for the name plus its terminator
	assert.Equal(t, []uint32{uint32(len("PRODCLUS") + 1)}, calls.nameFills)
	assert.Equal(t, []uint32{
		uint32(len("node1") + 1),
		uint32(len("longnodename2") + 1),
	}, calls.enumFills)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	fake := winapi.NewFake()
	s := newTestSession(t, fake)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.Closed())
	assert.Equal(t, 0, fake.OpenHandleCount())
	assert.Equal(t, 0, fake.DoubleCloses())
	assert.Equal(t, 1, fake.TotalCloses())
}

func TestClosedSessionRejectsEveryOperation(t *testing.T) {
	fake := winapi.NewFake()
	fake.AddNode("node1", winapi.NodeStateUp)
	s := newTestSession(t, fake)
	require.NoError(t, s.Close())
	before := fake.TotalOpens()

	_, err := s.Name()
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.Nodes()
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.Resources()
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.Groups()
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.OpenNode("node1")
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.OpenResource("res1")
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	_, err = s.OpenGroup("grp1")
	assert.True(t, clerr.IsCode(err, clerr.ErrSessionClosed))

	// every guard fired before native code ran
	assert.Equal(t, before, fake.TotalOpens())
}

func TestSessionNodes(t *testing.T) {
	t.Run("returns an open wrapper per node", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		fake.AddNode("node2", winapi.NodeStateDown)
		fake.AddNode("node3", winapi.NodeStatePaused)
		s := newTestSession(t, fake)
		defer s.Close()

		nodes, err := s.Nodes()
		require.NoError(t, err)
		require.Len(t, nodes, 3)

		names := make([]string, 0, len(nodes))
		for _, n := range nodes {
			names = append(names, n.Name())
		}
		assert.Equal(t, []string{"node1", "node2", "node3"}, names)

		// session + three nodes open, cursor already released
		assert.Equal(t, 4, fake.OpenHandleCount())
		closeAll(nodes)
		assert.Equal(t, 1, fake.OpenHandleCount())
	})

	t.Run("returns an empty slice for an empty cluster", func(t *testing.T) {
		fake := winapi.NewFake()
		s := newTestSession(t, fake)
		defer s.Close()

		nodes, err := s.Nodes()
		require.NoError(t, err)
		assert.NotNil(t, nodes)
		assert.Empty(t, nodes)
	})

	t.Run("releases everything when the cursor fails mid-stream", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		fake.AddNode("node2", winapi.NodeStateUp)
		fake.AddNode("node3", winapi.NodeStateUp)
		fake.FailEnumAt = 1
		s := newTestSession(t, fake)
		defer s.Close()

		_, err := s.Nodes()
		require.Error(t, err)
		assert.True(t, clerr.IsCode(err, clerr.ErrNativeCallFailed))

		// only the session handle survives the failure
		assert.Equal(t, 1, fake.OpenHandleCount())
		assert.Equal(t, 0, fake.DoubleCloses())
	})

	t.Run("releases collected nodes when a later open fails", func(t *testing.T) {
		fake := winapi.NewFake()
		fake.AddNode("node1", winapi.NodeStateUp)
		fake.AddNode("node2", winapi.NodeStateUp)
		s := newTestSession(t, fake)
		defer s.Close()

		// names enumerate fine, every open then fails
		fake.FailOps["OpenClusterNode"] = winapi.ErrorGenFailure

		_, err := s.Nodes()
		require.Error(t, err)
		assert.Equal(t, 1, fake.OpenHandleCount())
		assert.Equal(t, 0, fake.DoubleCloses())
	})
}

func TestSessionResourcesAndGroups(t *testing.T) {
	fake := winapi.NewFake()
	fake.AddResource("res1", winapi.ResourceStateOnline, "node1")
	fake.AddResource("res2", winapi.ResourceStateOffline, "node2")
	fake.AddGroup("grp1", winapi.GroupStateOnline, "node1")
	s := newTestSession(t, fake)
	defer s.Close()

	resources, err := s.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "res1", resources[0].Name())
	closeAll(resources)

	groups, err := s.Groups()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "grp1", groups[0].Name())
	closeAll(groups)

	assert.Equal(t, 1, fake.OpenHandleCount())
	assert.Equal(t, 0, fake.DoubleCloses())
}
