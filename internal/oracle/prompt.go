package oracle

import (
	"fmt"
	"strings"

	"choreflow/internal/types"
)

// maxTaskLines bounds how many tasks are listed individually in the prompt
// when the catalog is large, to keep the request payload small.
const maxTaskLines = 20

// BuildDistributionPrompt renders the request for one chunk. The oracle is
// instructed to answer with a bare JSON object of the Distribution shape;
// everything downstream assumes it will frequently disobey.
func BuildDistributionPrompt(req Request) string {
	days := int(req.ChunkEnd.Sub(req.ChunkStart).Hours()/24) + 1

	var b strings.Builder

	b.WriteString("Act as a household organization expert. Distribute the household tasks below fairly and sensibly.\n\n")

	fmt.Fprintf(&b, "PEOPLE (%d):\n", len(req.Persons))
	for _, p := range req.Persons {
		fmt.Fprintf(&b, "- %s (ID: %s): %s\n", p.Name, p.ID, availabilityDescriptor(p))
	}

	fmt.Fprintf(&b, "\nACTIVE TASKS (%d):\n", len(req.Tasks))
	listed := req.Tasks
	if len(listed) > maxTaskLines {
		listed = listed[:maxTaskLines]
	}
	for _, t := range listed {
		fmt.Fprintf(&b, "- %s (ID: %s): %d min, frequency: %s%s\n",
			t.Name, t.ID, t.Duration, t.Frequency, taskConstraints(t))
	}
	if len(req.Tasks) > maxTaskLines {
		fmt.Fprintf(&b, "... and %d more tasks\n", len(req.Tasks)-maxTaskLines)
	}

	fmt.Fprintf(&b, "\nPERIOD TO PLAN:\nFrom: %s\nTo: %s (%d days total)\n",
		req.ChunkStart.Format(types.DateLayout), req.ChunkEnd.Format(types.DateLayout), days)

	b.WriteString(`
RULES:
1. BALANCE: total weekly time must be similar for every person.
2. FREQUENCY:
   - 'daily': assign EVERY day of the period.
   - 'weekly': assign 1-2 times per week, separated by 3-4 days.
   - 'monthly': assign once in the period.
3. DATE FORMAT: strictly YYYY-MM-DD.
4. NO DUPLICATES: never assign the same task to the same person on the same day twice.

RESPONSE FORMAT (PURE JSON):
{
  "assignments": [
    {"taskId": "` + exampleTaskID(req) + `", "personId": "` + examplePersonID(req) + `", "date": "` + req.ChunkStart.Format(types.DateLayout) + `"}
  ]
}

IMPORTANT:
- Generate as many assignments as needed to cover the period.
- Return ONLY the JSON object. No introductions, no explanations, no markdown.`)

	return b.String()
}

// availabilityDescriptor reduces a person's schedule to the coarse phrase
// the oracle can actually reason about.
func availabilityDescriptor(p types.Person) string {
	if p.SpecialConditions.FullTimeAvailable {
		return "fully available all week"
	}
	if p.SpecialConditions.ShiftWork {
		return "rotating shift work, availability varies"
	}
	unavailable := 0
	for _, day := range types.Weekdays {
		if ds, ok := p.WeekSchedule[day]; ok && !ds.Available {
			unavailable++
		}
	}
	if unavailable >= 5 {
		return "works full-time Mon-Fri (less time available)"
	}
	if unavailable > 0 {
		return fmt.Sprintf("working %d days a week", unavailable)
	}
	return "fully available"
}

func taskConstraints(t types.Task) string {
	var parts []string
	if t.RequiresDaylight {
		parts = append(parts, "needs daylight")
	}
	if t.RequiresWeekend {
		parts = append(parts, "weekend only")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func exampleTaskID(req Request) string {
	if len(req.Tasks) > 0 {
		return req.Tasks[0].ID
	}
	return "task-uuid"
}

func examplePersonID(req Request) string {
	if len(req.Persons) > 0 {
		return req.Persons[0].ID
	}
	return "person-uuid"
}
