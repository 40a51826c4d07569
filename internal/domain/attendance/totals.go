package attendance

import "encoding/json"

// OvertimeKey is the totals column holding summed overtime hours.
const OvertimeKey = "OT"

type Totals struct {
	Counts   map[Status]int
	Overtime float64
}

func newTotals() Totals {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return Totals{Counts: counts}
}

// AsMap flattens the totals into status code -> count plus "OT" -> hours.
func (t Totals) AsMap() map[string]float64 {
	m := make(map[string]float64, len(t.Counts)+1)
	for s, n := range t.Counts {
		m[string(s)] = float64(n)
	}
	m[OvertimeKey] = t.Overtime
	return m
}

func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.AsMap())
}

// Aggregate counts statuses and sums overtime per worker. Every worker in
// workerIDs gets a zeroed row. Entries for other workers are skipped, and so
// are empty or unrecognised statuses.
func Aggregate(workerIDs []string, entries []Entry) map[string]Totals {
	totals := make(map[string]Totals, len(workerIDs))
	for _, id := range workerIDs {
		totals[id] = newTotals()
	}

	for _, e := range entries {
		t, ok := totals[e.WorkerID]
		if !ok {
			continue
		}
		if e.Status.IsKnown() {
			t.Counts[e.Status]++
		}
		if e.OvertimeHours != nil {
			t.Overtime += *e.OvertimeHours
		}
		totals[e.WorkerID] = t
	}

	return totals
}
