package kernel

import "oplhost/proto"

type pendingRequest struct {
	req       *Request
	cancelled bool
}

// pendingTable holds requests that were accepted and have not completed yet.
// It is guarded by the owning Scheduler's mutex.
type pendingTable map[proto.Handle]*pendingRequest

func (t pendingTable) insert(req *Request) bool {
	if _, ok := t[req.Handle]; ok {
		return false
	}
	t[req.Handle] = &pendingRequest{req: req}
	return true
}

func (t pendingTable) lookup(h proto.Handle) (*pendingRequest, bool) {
	p, ok := t[h]
	return p, ok
}

// remove deletes h. If req is non-nil the entry must belong to that request,
// so a stale completion cannot retire a reused handle.
func (t pendingTable) remove(h proto.Handle, req *Request) (*pendingRequest, bool) {
	p, ok := t[h]
	if !ok {
		return nil, false
	}
	if req != nil && p.req != req {
		return nil, false
	}
	delete(t, h)
	return p, true
}
