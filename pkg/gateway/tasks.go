package gateway

import (
	"fmt"
	"strings"
)

type taskCounts struct {
	Remaining  int
	ToDo       int
	InProgress int
	Blocked    int
}

type teamMember struct {
	ID   string
	Name string
}

type sprintDay struct {
	Date   string
	Counts map[string]taskCounts
}

var team = []teamMember{
	{ID: "alice", Name: "Alice"},
	{ID: "bob", Name: "Bob"},
	{ID: "charlie", Name: "Charlie"},
}

var todayCounts = map[string]taskCounts{
	"alice":   {Remaining: 12, ToDo: 5, InProgress: 4, Blocked: 3},
	"bob":     {Remaining: 18, ToDo: 11, InProgress: 4, Blocked: 3},
	"charlie": {Remaining: 14, ToDo: 6, InProgress: 5, Blocked: 3},
}

var sprint = []sprintDay{
	{Date: "5/10", Counts: map[string]taskCounts{
		"alice":   {Remaining: 8, ToDo: 3, InProgress: 3, Blocked: 2},
		"bob":     {Remaining: 7, ToDo: 2, InProgress: 3, Blocked: 2},
		"charlie": {Remaining: 9, ToDo: 4, InProgress: 3, Blocked: 2},
	}},
	{Date: "5/11", Counts: map[string]taskCounts{
		"alice":   {Remaining: 7, ToDo: 2, InProgress: 3, Blocked: 2},
		"bob":     {Remaining: 6, ToDo: 2, InProgress: 2, Blocked: 2},
		"charlie": {Remaining: 8, ToDo: 3, InProgress: 3, Blocked: 2},
	}},
	{Date: "5/12", Counts: map[string]taskCounts{
		"alice":   {Remaining: 9, ToDo: 3, InProgress: 4, Blocked: 2},
		"bob":     {Remaining: 8, ToDo: 3, InProgress: 3, Blocked: 2},
		"charlie": {Remaining: 10, ToDo: 4, InProgress: 4, Blocked: 2},
	}},
	{Date: "5/13", Counts: map[string]taskCounts{
		"alice":   {Remaining: 6, ToDo: 1, InProgress: 2, Blocked: 3},
		"bob":     {Remaining: 9, ToDo: 3, InProgress: 3, Blocked: 3},
		"charlie": {Remaining: 11, ToDo: 5, InProgress: 3, Blocked: 3},
	}},
	{Date: "5/14", Counts: map[string]taskCounts{
		"alice":   {Remaining: 10, ToDo: 4, InProgress: 3, Blocked: 3},
		"bob":     {Remaining: 9, ToDo: 3, InProgress: 3, Blocked: 3},
		"charlie": {Remaining: 12, ToDo: 5, InProgress: 4, Blocked: 3},
	}},
	{Date: "5/15", Counts: map[string]taskCounts{
		"alice":   {Remaining: 11, ToDo: 4, InProgress: 4, Blocked: 3},
		"bob":     {Remaining: 10, ToDo: 3, InProgress: 4, Blocked: 3},
		"charlie": {Remaining: 13, ToDo: 6, InProgress: 4, Blocked: 3},
	}},
	{Date: "5/16", Counts: map[string]taskCounts{
		"alice":   {Remaining: 12, ToDo: 5, InProgress: 4, Blocked: 3},
		"bob":     {Remaining: 11, ToDo: 4, InProgress: 4, Blocked: 3},
		"charlie": {Remaining: 14, ToDo: 6, InProgress: 5, Blocked: 3},
	}},
}

// weeklyTotals sums the sprint counts of every team member.
func weeklyTotals() taskCounts {
	var total taskCounts
	for _, day := range sprint {
		for _, member := range team {
			counts := day.Counts[member.ID]
			total.ToDo += counts.ToDo
			total.InProgress += counts.InProgress
			total.Blocked += counts.Blocked
		}
	}
	return total
}

func tasksStatusText() string {
	var sb strings.Builder
	sb.WriteString("Today's Task Status:\n\n")

	blocks := make([]string, 0, len(team))
	for _, member := range team {
		counts := todayCounts[member.ID]
		blocks = append(blocks, fmt.Sprintf("%s:\n  To Do: %d\n  In Progress: %d\n  Blocked: %d\n  Remaining: %d\n",
			member.Name, counts.ToDo, counts.InProgress, counts.Blocked, counts.Remaining))
	}
	sb.WriteString(strings.Join(blocks, "\n"))

	total := weeklyTotals()
	sb.WriteString("\n\nSummary for the past week:\n")
	fmt.Fprintf(&sb, "Total tasks To Do: %d\n", total.ToDo)
	fmt.Fprintf(&sb, "Total tasks In Progress: %d\n", total.InProgress)
	fmt.Fprintf(&sb, "Total tasks Blocked: %d\n", total.Blocked)
	return sb.String()
}
