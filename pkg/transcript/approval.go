package transcript

import (
	"github.com/deepagents/deepchat/pkg/api"
)

// PendingApprovals returns the most recent unresolved approval batch, or nil.
func (r *Reducer) PendingApprovals() []api.ApprovalRequest {
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].PendingApproval() {
			requests := make([]api.ApprovalRequest, len(r.messages[i].ApprovalRequests))
			copy(requests, r.messages[i].ApprovalRequests)
			return requests
		}
	}
	return nil
}

// ResolveApprovals applies one user decision to the whole pending batch. It
// builds the outbound response mapping every request's tool call id to the
// same boolean, clears the batch on the owning message, and, when that
// message has no content yet, writes a placeholder so the user sees feedback
// before the server's next event. The placeholder is overwritten wholesale by
// any later content event.
//
// The second return is false when no batch is pending.
func (r *Reducer) ResolveApprovals(approved bool) (api.ApprovalResponse, bool) {
	var owner *Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].PendingApproval() {
			owner = r.messages[i]
			break
		}
	}
	if owner == nil {
		return api.ApprovalResponse{}, false
	}

	resp := api.ApprovalResponse{Approval: make(map[string]bool, len(owner.ApprovalRequests))}
	for _, req := range owner.ApprovalRequests {
		resp.Approval[req.ToolCallID] = approved
	}

	owner.ApprovalRequests = nil
	if owner.Text == "" {
		if approved {
			owner.Text = "Approved - continuing..."
		} else {
			owner.Text = "Denied - continuing..."
		}
	}

	return resp, true
}
