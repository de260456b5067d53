package assistant

import "strings"

// FlowName identifies a scripted flow.
type FlowName string

const (
	FlowDiscrepancy FlowName = "discrepancy"
	FlowSummary     FlowName = "summary"
	FlowPending     FlowName = "pending_orders"
	FlowFallback    FlowName = "fallback"

	FlowSyncReport     FlowName = "sync_report"
	FlowAssignDispatch FlowName = "assign_dispatch"
)

// Rule routes input to a flow when any of its keywords occurs in the
// lower-cased text.
type Rule struct {
	Flow     FlowName
	Keywords []string
}

// Matches reports whether lower contains one of the rule's keywords.
func (r Rule) Matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// rules are tried in order; the first match wins.
var rules = []Rule{
	{Flow: FlowDiscrepancy, Keywords: []string{"discrep", "sync"}},
	{Flow: FlowSummary, Keywords: []string{"summarize", "activity"}},
	{Flow: FlowPending, Keywords: []string{"pending", "urgent"}},
}

// Rules returns the classification rules in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify picks the flow for a user input. Input matching no rule gets
// the fallback reply.
func Classify(input string) FlowName {
	lower := strings.ToLower(input)
	for _, r := range rules {
		if r.Matches(lower) {
			return r.Flow
		}
	}
	return FlowFallback
}

// QuickActions are the canned prompts offered under the input box.
var QuickActions = []string{
	"Analyze orders for TechDealer Solutions with discrepancies",
	"Summarize recent activity",
	"Check inventory levels",
	"Show pending orders",
}
