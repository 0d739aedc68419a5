package signaling

// UnknownIdentity is returned for connections that never completed a
// room:join.
const UnknownIdentity = "unknown"

// Registry maps connection IDs to the identity (email) presented at
// join time, and back. It is a plain table: the Hub owns it and
// serializes all access, so it carries no lock of its own.
type Registry struct {
	identityByConn map[string]string
	connByIdentity map[string]string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		identityByConn: make(map[string]string),
		connByIdentity: make(map[string]string),
	}
}

// Register creates an entry with no identity. Registering an already
// known connection is a no-op.
func (r *Registry) Register(connID string) {
	if _, ok := r.identityByConn[connID]; !ok {
		r.identityByConn[connID] = ""
	}
}

// SetIdentity records the identity<->connection mapping in both
// directions. A later join under the same identity supersedes the
// earlier connection's reverse mapping (last writer wins); the earlier
// connection keeps its forward entry so departure notifications can
// still name it.
func (r *Registry) SetIdentity(connID, identity string) {
	r.identityByConn[connID] = identity
	r.connByIdentity[identity] = connID
}

// Identity returns the identity recorded for connID, or
// UnknownIdentity if none was ever set.
func (r *Registry) Identity(connID string) string {
	if id, ok := r.identityByConn[connID]; ok && id != "" {
		return id
	}
	return UnknownIdentity
}

// ConnOf returns the connection currently mapped to identity.
func (r *Registry) ConnOf(identity string) (string, bool) {
	connID, ok := r.connByIdentity[identity]
	return connID, ok
}

// Has reports whether connID is registered.
func (r *Registry) Has(connID string) bool {
	_, ok := r.identityByConn[connID]
	return ok
}

// Remove deletes both directions of the mapping. The reverse entry is
// only dropped when it still points at connID, so a superseded
// connection cannot clobber its successor on the way out. Removing an
// unknown connection is a no-op.
func (r *Registry) Remove(connID string) {
	identity, ok := r.identityByConn[connID]
	if !ok {
		return
	}
	delete(r.identityByConn, connID)
	if identity != "" && r.connByIdentity[identity] == connID {
		delete(r.connByIdentity, identity)
	}
}
