package participant

// Stats is an aggregate snapshot of world population by device category.
//
// Total comes from the presence tracker (eager); the per-category
// counts come from the classification cache (lazy). Total may exceed
// the sum of the categories when participants have joined but not yet
// triggered classification.
type Stats struct {
	Total   int `json:"total"`
	VR      int `json:"vr"`
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
}

// Reporter derives aggregate statistics from the classifier cache and
// the presence tracker. It is a read-only view; it never mutates either.
type Reporter struct {
	classifier *Classifier
	tracker    *Tracker
}

// NewReporter creates a stats reporter over a classifier and tracker.
func NewReporter(classifier *Classifier, tracker *Tracker) *Reporter {
	return &Reporter{
		classifier: classifier,
		tracker:    tracker,
	}
}

// Snapshot returns the current population stats.
func (r *Reporter) Snapshot() Stats {
	counts := r.classifier.Counts()
	return Stats{
		Total:   r.tracker.LiveCount(),
		VR:      counts.VR,
		Mobile:  counts.Mobile,
		Desktop: counts.Desktop,
	}
}
