package assistant

import (
	"time"

	"github.com/ziadkadry99/opsdash/internal/activity"
)

// Step delays, before pacing is applied. Each is relative to the previous step.
const (
	DelayFallback = 1000 * time.Millisecond
	DelayScan     = 1500 * time.Millisecond
	DelayResult   = 2000 * time.Millisecond
	DelayPending  = 1200 * time.Millisecond
	DelayFollowUp = 3000 * time.Millisecond
	DelayApproval = 3000 * time.Millisecond
)

// Canned texts.
const (
	Greeting = "Hello! I'm your AI Copilot. I can help you analyze orders, sync data, or generate reports. What would you like to do?"
	Fallback = "I'm tuned to help with specific operational tasks right now. Try asking me to analyze order discrepancies or summarize recent activity."

	SyncReportPrompt     = "Yes, sync them and generate the report."
	AssignDispatchPrompt = "Assign provider and dispatch."

	summaryReport = "**Analysis Complete. Found 3 orders under $1M.**\n\n" +
		"- Order #ORD-2054: $850k - **Missing Logistics Provider**\n" +
		"- Order #ORD-2051: $420k - In Transit\n" +
		"- Order #ORD-2048: $120k - Delivered\n\n" +
		"Order #ORD-2054 needs immediate attention. Shall I assign the default logistics provider and dispatch?"
	syncReport = "- Syncing 3 records to Central DB... Done.\n" +
		"- Generating Reconciliation Report... Done."
	dispatchReport = "- Logistics Provider \"FastTrack\" assigned.\n" +
		"- Dispatch signal sent to warehouse. Order is now processing."
)

// step is a unit of a flow applied to the session under its lock.
type step struct {
	delay time.Duration
	apply func(s *Session)
}

// flow is a scripted sequence: start runs immediately with the user
// message, steps run later in order.
type flow struct {
	name  FlowName
	start func(s *Session)
	steps []step
}

func (s *Session) flowFor(name FlowName) flow {
	switch name {
	case FlowDiscrepancy:
		return flow{
			name:  name,
			start: func(s *Session) { s.log("Started discrepancy analysis", activity.LevelSystem) },
			steps: []step{
				{DelayScan, func(s *Session) {
					s.appendAssistant(&Message{Kind: KindProgress, Text: `Scanning recent orders for "TechDealer Solutions"...`})
				}},
				{DelayResult, func(s *Session) {
					s.log("Found 3 discrepancies", activity.LevelWarning)
					s.appendAssistant(&Message{
						Kind:        KindWidget,
						Discrepancy: newDiscrepancyResolution(),
						FollowUps:   []ActionName{ActionSyncReport},
					})
					s.setComposing(false)
				}},
			},
		}
	case FlowSummary:
		return flow{
			name:  name,
			start: func(s *Session) { s.log("Started activity summary", activity.LevelSystem) },
			steps: []step{
				{DelayScan, func(s *Session) {
					s.appendAssistant(&Message{Kind: KindProgress, Text: `Analyzing recent activity for "TechDealer Solutions"...`})
				}},
				{DelayResult, func(s *Session) {
					s.log("Analysis complete: 3 orders found", activity.LevelSuccess)
					s.appendAssistant(&Message{
						Kind:      KindReport,
						Text:      summaryReport,
						FollowUps: []ActionName{ActionAssignDispatch},
					})
					s.setComposing(false)
				}},
			},
		}
	case FlowPending:
		return flow{
			name:  name,
			start: func(s *Session) { s.log("Retrieving pending orders", activity.LevelSystem) },
			steps: []step{
				{DelayPending, func(s *Session) {
					s.appendAssistant(&Message{Kind: KindWidget, Pending: newPendingOrders(s.pack.PendingOrders)})
					s.setComposing(false)
				}},
			},
		}
	case FlowSyncReport:
		return flow{
			name:  name,
			start: func(s *Session) { s.log("Initiated DB Sync", activity.LevelInfo) },
			steps: []step{
				{DelayFollowUp, func(s *Session) {
					s.log("Report generated", activity.LevelSuccess)
					s.appendAssistant(&Message{
						Kind:       KindReport,
						Text:       syncReport,
						Attachment: &Attachment{Name: "Reconciliation_Report.pdf", Detail: "1.2 MB • Generated just now"},
					})
					s.setComposing(false)
				}},
			},
		}
	case FlowAssignDispatch:
		return flow{
			name:  name,
			start: func(s *Session) { s.log("Dispatch sequence started", activity.LevelInfo) },
			steps: []step{
				{DelayFollowUp, func(s *Session) {
					s.log("Logistics provider assigned", activity.LevelSuccess)
					s.appendAssistant(&Message{Kind: KindReport, Text: dispatchReport})
					s.setComposing(false)
				}},
			},
		}
	default:
		return flow{
			name:  FlowFallback,
			start: func(*Session) {},
			steps: []step{
				{DelayFallback, func(s *Session) {
					s.appendAssistant(&Message{Kind: KindText, Text: Fallback})
					s.setComposing(false)
				}},
			},
		}
	}
}
