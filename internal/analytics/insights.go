package analytics

import (
	"fmt"
	"math"
)

// directionDeadZone is the change, in percentage points, reported as unchanged.
const directionDeadZone = 0.05

type direction string

const (
	rising    direction = "rising"
	falling   direction = "falling"
	unchanged direction = "unchanged"
)

func directionOf(change float64) direction {
	switch {
	case math.Abs(change) < directionDeadZone:
		return unchanged
	case change > 0:
		return rising
	default:
		return falling
	}
}

func insufficientDataInsights() []string {
	return []string{
		"Not enough data to compare ticket volume.",
		"Not enough data to compare resolved tickets.",
		"Not enough data to evaluate SLA compliance.",
		"Not enough data to evaluate the backlog.",
	}
}

func buildInsights(r Report) []string {
	cur := *r.Current
	month := r.CurrentMonth.Label
	prevLabel := ""
	var prev *MonthMetrics
	if r.PreviousMonth != nil {
		prevLabel = r.PreviousMonth.Label
		prev = r.Previous
	}

	insights := []string{
		countInsight("Ticket volume is", "tickets received", cur.Tickets, month, prev, prevLabel, func(m MonthMetrics) int { return m.Tickets }),
		countInsight("Resolved tickets are", "tickets resolved", cur.Resolved, month, prev, prevLabel, func(m MonthMetrics) int { return m.Resolved }),
		slaInsight(cur, month, prev, prevLabel),
		backlogInsight(cur, month, prev, prevLabel),
	}
	if len(r.Backlog) > 0 {
		top := r.Backlog[0]
		insights = append(insights, fmt.Sprintf("Largest backlog status: %s (%d tickets).", top.Status, top.Count))
	}
	return insights
}

func countInsight(subject, noun string, current int, month string, prev *MonthMetrics, prevLabel string, pick func(MonthMetrics) int) string {
	if prev == nil {
		return fmt.Sprintf("%d %s in %s; no previous month to compare against.", current, noun, month)
	}
	previous := pick(*prev)
	delta := PercentChange(float64(current), float64(previous), true)
	if delta == nil {
		return fmt.Sprintf("%d %s in %s; %s had none, so there is no comparative basis.", current, noun, month, prevLabel)
	}
	dir := directionOf(*delta)
	if dir == unchanged {
		return fmt.Sprintf("%s unchanged: %d %s in %s, same as %s.", subject, current, noun, month, prevLabel)
	}
	return fmt.Sprintf("%s %s: %d %s in %s versus %d in %s (%+.1f%%).", subject, dir, current, noun, month, previous, prevLabel, *delta)
}

func slaInsight(cur MonthMetrics, month string, prev *MonthMetrics, prevLabel string) string {
	health := SLAHealth(cur.SLAPct)
	if prev == nil || prev.Tickets == 0 {
		return fmt.Sprintf("SLA compliance stands at %.1f%% in %s (%s).", cur.SLAPct, month, health)
	}
	change := cur.SLAPct - prev.SLAPct
	dir := directionOf(change)
	if dir == unchanged {
		return fmt.Sprintf("SLA compliance is unchanged at %.1f%% compared with %s (%s).", cur.SLAPct, prevLabel, health)
	}
	return fmt.Sprintf("SLA compliance is %s: %.1f%% in %s versus %.1f%% in %s (%+.1f pts, %s).", dir, cur.SLAPct, month, prev.SLAPct, prevLabel, change, health)
}

func backlogInsight(cur MonthMetrics, month string, prev *MonthMetrics, prevLabel string) string {
	health := BacklogHealth(cur.Backlog)
	if prev == nil {
		return fmt.Sprintf("Backlog holds %d open tickets in %s (%s).", cur.Backlog, month, health)
	}
	delta := PercentChange(float64(cur.Backlog), float64(prev.Backlog), true)
	if delta == nil {
		return fmt.Sprintf("Backlog holds %d open tickets in %s; %s had no open tickets to compare against (%s).", cur.Backlog, month, prevLabel, health)
	}
	dir := directionOf(*delta)
	if dir == unchanged {
		return fmt.Sprintf("Backlog is unchanged at %d open tickets compared with %s (%s).", cur.Backlog, prevLabel, health)
	}
	return fmt.Sprintf("Backlog is %s: %d open tickets in %s versus %d in %s (%+.1f%%, %s).", dir, cur.Backlog, month, prev.Backlog, prevLabel, *delta, health)
}
