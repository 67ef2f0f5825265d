package domain

// DecisionKind tells what reconciliation concluded for a record.
type DecisionKind string

const (
	DecisionAdmit         DecisionKind = "admit"
	DecisionReject        DecisionKind = "reject"
	DecisionFlagDuplicate DecisionKind = "flag_duplicate"
)

// ReconciliationDecision is the outcome of reconciling one external record.
// Game carries the resolved fields for every kind except a reject on a malformed id.
type ReconciliationDecision struct {
	Kind         DecisionKind     `json:"decision"`
	Game         *Game            `json:"game,omitempty"`
	Identity     *DisplayIdentity `json:"identity,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	CandidateIDs []int64          `json:"candidate_ids,omitempty"`
	Updated      bool             `json:"updated,omitempty"`
}

// Admit accepts g.
func Admit(g *Game) ReconciliationDecision {
	return ReconciliationDecision{Kind: DecisionAdmit, Game: g}
}

// Reject refuses the record.
func Reject(reason string) ReconciliationDecision {
	return ReconciliationDecision{Kind: DecisionReject, Reason: reason}
}

// FlagDuplicate holds g back because it resembles the listed games.
func FlagDuplicate(g *Game, ids []int64, reason string) ReconciliationDecision {
	return ReconciliationDecision{Kind: DecisionFlagDuplicate, Game: g, CandidateIDs: ids, Reason: reason}
}
