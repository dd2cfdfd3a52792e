package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clusproject/clus/pkg/cluster"
)

// SessionOpener opens a cluster session for one request. The API opens a
// fresh session per request and closes it when the handler returns; the
// blocking native calls run on the request goroutine.
type SessionOpener func() (*cluster.Session, error)

// ClusterOpener returns a SessionOpener bound to the named cluster through
// the platform's native API. An empty name targets the local cluster.
func ClusterOpener(name string) SessionOpener {
	return func() (*cluster.Session, error) {
		return cluster.Open(name)
	}
}

// Handlers serves the cluster REST endpoints.
type Handlers struct {
	open SessionOpener
}

// NewHandlers creates the endpoint handlers on top of a session opener.
func NewHandlers(open SessionOpener) *Handlers {
	return &Handlers{open: open}
}

// ClusterInfo is the GET /cluster payload.
type ClusterInfo struct {
	Name string `json:"name"`
}

// NodeInfo describes one node in list and detail responses.
type NodeInfo struct {
	Name  string            `json:"name"`
	State cluster.NodeState `json:"state"`
}

// ResourceInfo describes one resource.
type ResourceInfo struct {
	Name  string                `json:"name"`
	State cluster.ResourceState `json:"state"`
	Owner string                `json:"owner,omitempty"`
}

// GroupInfo describes one group.
type GroupInfo struct {
	Name  string             `json:"name"`
	State cluster.GroupState `json:"state"`
	Owner string             `json:"owner,omitempty"`
}

// MoveRequest is the POST /groups/{name}/move body.
type MoveRequest struct {
	Node string `json:"node"`
}

// withSession opens a session, runs fn, and guarantees the session is
// closed before the response is complete.
func (h *Handlers) withSession(w http.ResponseWriter, fn func(s *cluster.Session) error) {
	s, err := h.open()
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.Close()

	if err := fn(s); err != nil {
		writeError(w, err)
	}
}

// GetCluster handles GET /cluster.
func (h *Handlers) GetCluster(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		name, err := s.Name()
		if err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(ClusterInfo{Name: name}))
		return nil
	})
}

// ListNodes handles GET /nodes.
func (h *Handlers) ListNodes(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		nodes, err := s.Nodes()
		if err != nil {
			return err
		}
		defer closeAll(nodes)

		infos := make([]NodeInfo, 0, len(nodes))
		for _, n := range nodes {
			state, err := n.State()
			if err != nil {
				return err
			}
			infos = append(infos, NodeInfo{Name: n.Name(), State: state})
		}
		JSON(w, http.StatusOK, OKResponse(infos))
		return nil
	})
}

// GetNode handles GET /nodes/{name}.
func (h *Handlers) GetNode(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		n, err := s.OpenNode(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer n.Close()

		state, err := n.State()
		if err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(NodeInfo{Name: n.Name(), State: state}))
		return nil
	})
}

// PauseNode handles POST /nodes/{name}/pause.
func (h *Handlers) PauseNode(w http.ResponseWriter, r *http.Request) {
	h.nodeAction(w, r, (*cluster.Node).Pause)
}

// ResumeNode handles POST /nodes/{name}/resume.
func (h *Handlers) ResumeNode(w http.ResponseWriter, r *http.Request) {
	h.nodeAction(w, r, (*cluster.Node).Resume)
}

func (h *Handlers) nodeAction(w http.ResponseWriter, r *http.Request, action func(*cluster.Node) error) {
	h.withSession(w, func(s *cluster.Session) error {
		n, err := s.OpenNode(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer n.Close()

		if err := action(n); err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(nil))
		return nil
	})
}

// ListResources handles GET /resources.
func (h *Handlers) ListResources(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		resources, err := s.Resources()
		if err != nil {
			return err
		}
		defer closeAll(resources)

		infos := make([]ResourceInfo, 0, len(resources))
		for _, res := range resources {
			state, owner, err := res.State()
			if err != nil {
				return err
			}
			infos = append(infos, ResourceInfo{Name: res.Name(), State: state, Owner: owner})
		}
		JSON(w, http.StatusOK, OKResponse(infos))
		return nil
	})
}

// GetResource handles GET /resources/{name}.
func (h *Handlers) GetResource(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		res, err := s.OpenResource(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer res.Close()

		state, owner, err := res.State()
		if err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(ResourceInfo{Name: res.Name(), State: state, Owner: owner}))
		return nil
	})
}

// OnlineResource handles POST /resources/{name}/online.
func (h *Handlers) OnlineResource(w http.ResponseWriter, r *http.Request) {
	h.resourceAction(w, r, (*cluster.Resource).Online)
}

// OfflineResource handles POST /resources/{name}/offline.
func (h *Handlers) OfflineResource(w http.ResponseWriter, r *http.Request) {
	h.resourceAction(w, r, (*cluster.Resource).Offline)
}

func (h *Handlers) resourceAction(w http.ResponseWriter, r *http.Request, action func(*cluster.Resource) error) {
	h.withSession(w, func(s *cluster.Session) error {
		res, err := s.OpenResource(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer res.Close()

		if err := action(res); err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(nil))
		return nil
	})
}

// ListGroups handles GET /groups.
func (h *Handlers) ListGroups(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		groups, err := s.Groups()
		if err != nil {
			return err
		}
		defer closeAll(groups)

		infos := make([]GroupInfo, 0, len(groups))
		for _, g := range groups {
			state, owner, err := g.State()
			if err != nil {
				return err
			}
			infos = append(infos, GroupInfo{Name: g.Name(), State: state, Owner: owner})
		}
		JSON(w, http.StatusOK, OKResponse(infos))
		return nil
	})
}

// GetGroup handles GET /groups/{name}.
func (h *Handlers) GetGroup(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		g, err := s.OpenGroup(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer g.Close()

		state, owner, err := g.State()
		if err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(GroupInfo{Name: g.Name(), State: state, Owner: owner}))
		return nil
	})
}

// OnlineGroup handles POST /groups/{name}/online.
func (h *Handlers) OnlineGroup(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, (*cluster.Group).Online)
}

// OfflineGroup handles POST /groups/{name}/offline.
func (h *Handlers) OfflineGroup(w http.ResponseWriter, r *http.Request) {
	h.groupAction(w, r, (*cluster.Group).Offline)
}

func (h *Handlers) groupAction(w http.ResponseWriter, r *http.Request, action func(*cluster.Group) error) {
	h.withSession(w, func(s *cluster.Session) error {
		g, err := s.OpenGroup(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer g.Close()

		if err := action(g); err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(nil))
		return nil
	})
}

// MoveGroup handles POST /groups/{name}/move. The move is requested, not
// awaited; a successful response means the cluster accepted the request.
func (h *Handlers) MoveGroup(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Node == "" {
		JSON(w, http.StatusBadRequest, ErrorResponse("request body must be {\"node\": \"<name>\"}"))
		return
	}

	h.withSession(w, func(s *cluster.Session) error {
		g, err := s.OpenGroup(chi.URLParam(r, "name"))
		if err != nil {
			return err
		}
		defer g.Close()

		n, err := s.OpenNode(req.Node)
		if err != nil {
			return err
		}
		defer n.Close()

		if err := g.MoveTo(n); err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(nil))
		return nil
	})
}

// ListCSV handles GET /csv.
func (h *Handlers) ListCSV(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, func(s *cluster.Session) error {
		infos, err := s.CSVInfo()
		if err != nil {
			return err
		}
		JSON(w, http.StatusOK, OKResponse(infos))
		return nil
	})
}

// Liveness handles GET /health. It succeeds as long as the HTTP server is
// responsive; it performs no native calls.
func (h *Handlers) Liveness(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, OKResponse(map[string]string{"service": "clusd"}))
}

// Readiness handles GET /health/ready. It proves the daemon can actually
// reach the cluster by opening and closing a session.
func (h *Handlers) Readiness(w http.ResponseWriter, r *http.Request) {
	s, err := h.open()
	if err != nil {
		writeError(w, err)
		return
	}
	defer s.Close()

	name, err := s.Name()
	if err != nil {
		writeError(w, err)
		return
	}
	JSON(w, http.StatusOK, OKResponse(ClusterInfo{Name: name}))
}

// closeAll releases a batch of cluster wrappers once the response payload
// has been collected.
func closeAll[T interface{ Close() error }](batch []T) {
	for _, item := range batch {
		_ = item.Close()
	}
}
