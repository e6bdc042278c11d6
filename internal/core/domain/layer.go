package domain

// Layer is one of seven fixed life-category labels assigned to every event.
type Layer string

// The seven layers. The declaration order here is also the tie-breaking
// priority order used by the classifier: when two layers score equally,
// the one listed first wins.
const (
	// LayerEconomics covers purchases, salaries, investments and bills.
	LayerEconomics Layer = "economics"

	// LayerEducation covers courses, exams, degrees and studying.
	LayerEducation Layer = "education"

	// LayerWork covers jobs, meetings, projects and deadlines.
	LayerWork Layer = "work"

	// LayerHealth covers medical visits, fitness and wellbeing.
	LayerHealth Layer = "health"

	// LayerRelationships covers family, friends and social occasions.
	LayerRelationships Layer = "relationships"

	// LayerTravel covers trips, flights, hotels and location history.
	LayerTravel Layer = "travel"

	// LayerMedia covers photos, music, films and everything unclassified.
	LayerMedia Layer = "media"
)

// DefaultLayer is assigned when no classification produces a confident match.
const DefaultLayer = LayerMedia

// Layers returns all layers in tie-breaking priority order.
func Layers() []Layer {
	return []Layer{
		LayerEconomics,
		LayerEducation,
		LayerWork,
		LayerHealth,
		LayerRelationships,
		LayerTravel,
		LayerMedia,
	}
}

// IsValid returns true if the layer is one of the seven fixed values.
func (l Layer) IsValid() bool {
	switch l {
	case LayerEconomics, LayerEducation, LayerWork, LayerHealth,
		LayerRelationships, LayerTravel, LayerMedia:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Layer) String() string {
	return string(l)
}

// ParseLayer converts a string into a Layer, falling back to DefaultLayer
// for anything unrecognised.
func ParseLayer(s string) Layer {
	l := Layer(s)
	if l.IsValid() {
		return l
	}
	return DefaultLayer
}
