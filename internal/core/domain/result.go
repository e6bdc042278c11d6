package domain

// ImportError reports one non-fatal failure during an import run.
// It never aborts the batch; sibling items continue.
type ImportError struct {
	// ItemID identifies the item (or row within it) that failed.
	ItemID string

	// Message is the human-readable diagnostic.
	Message string
}

// Error implements the error interface.
func (e ImportError) Error() string {
	if e.ItemID == "" {
		return e.Message
	}
	return e.ItemID + ": " + e.Message
}

// ImportStats aggregates counters for one import run. Merging is
// associative and order-independent.
type ImportStats struct {
	// ItemsSubmitted is the number of items handed to the pipeline.
	ItemsSubmitted int

	// ItemsProcessed is the number of items a parser accepted.
	ItemsProcessed int

	// ItemsSkipped counts items gated out by content type or left
	// unhandled, excluding hard failures.
	ItemsSkipped int

	// EventsProduced is the total number of events emitted.
	EventsProduced int

	// EventsByLayer counts emitted events per layer.
	EventsByLayer map[Layer]int
}

// Merge folds other into s. Safe on a zero-valued ImportStats.
func (s *ImportStats) Merge(other ImportStats) {
	s.ItemsSubmitted += other.ItemsSubmitted
	s.ItemsProcessed += other.ItemsProcessed
	s.ItemsSkipped += other.ItemsSkipped
	s.EventsProduced += other.EventsProduced
	if len(other.EventsByLayer) > 0 {
		if s.EventsByLayer == nil {
			s.EventsByLayer = make(map[Layer]int, len(other.EventsByLayer))
		}
		for layer, n := range other.EventsByLayer {
			s.EventsByLayer[layer] += n
		}
	}
}

// CountEvent records one emitted event in the stats.
func (s *ImportStats) CountEvent(layer Layer) {
	s.EventsProduced++
	if s.EventsByLayer == nil {
		s.EventsByLayer = make(map[Layer]int)
	}
	s.EventsByLayer[layer]++
}

// ImportResult is the sole output of every pipeline entry point.
type ImportResult struct {
	// Events holds every canonical event produced by the run.
	Events []Event

	// Errors holds every non-fatal failure, one per failed item or record.
	Errors []ImportError

	// Stats aggregates the run's counters.
	Stats ImportStats
}

// Merge appends other's events and errors and folds its stats.
// List order follows call order; aggregate content does not depend on it.
func (r *ImportResult) Merge(other ImportResult) {
	r.Events = append(r.Events, other.Events...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Stats.Merge(other.Stats)
}
