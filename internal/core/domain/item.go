package domain

// ImportItem is a fully materialised input handed to the pipeline.
// Reading the bytes (files, archives, network) is the caller's job;
// the pipeline itself performs no I/O.
type ImportItem struct {
	// ID identifies the item in errors and stats. Usually the file name.
	ID string

	// Name is the original file name, used for content-type gating and
	// as a low-confidence date fallback.
	Name string

	// ContentType is the declared MIME type hint (e.g., "text/csv").
	// Empty means "sniff from Name".
	ContentType string

	// Data is the raw content.
	Data []byte
}

// DateOrder resolves ambiguous slash-separated dates. It is always
// supplied explicitly by the caller, never guessed from the data.
type DateOrder string

const (
	// DateOrderMDY reads 03/04/2021 as March 4th (US convention).
	DateOrderMDY DateOrder = "mdy"

	// DateOrderDMY reads 03/04/2021 as April 3rd (most of the world).
	DateOrderDMY DateOrder = "dmy"
)

// IsValid returns true if the order is recognised.
func (o DateOrder) IsValid() bool {
	return o == DateOrderMDY || o == DateOrderDMY
}

// ImportOptions carries caller preferences for one import run.
// The zero value is usable; Normalise fills defaults.
type ImportOptions struct {
	// UserID is stamped onto every emitted event.
	UserID string

	// DateOrder disambiguates slash-separated dates. Defaults to MDY.
	DateOrder DateOrder

	// ExtraKeywords extends the classifier's built-in table per layer.
	// Merged functionally; the built-in table is never mutated.
	ExtraKeywords map[Layer][]string

	// MinScore is the minimum classifier score before falling back to
	// the default layer. Defaults to 1.
	MinScore int

	// MaxItemBytes rejects any single item larger than this many bytes.
	// Defaults to DefaultMaxItemBytes.
	MaxItemBytes int

	// Workers bounds the number of items parsed concurrently.
	// Defaults to DefaultWorkers.
	Workers int
}

// Defaults for ImportOptions.
const (
	// DefaultMaxItemBytes caps a single item at 50 MiB.
	DefaultMaxItemBytes = 50 << 20

	// DefaultWorkers is the default parse concurrency.
	DefaultWorkers = 4

	// DefaultMinScore is the default classifier confidence floor.
	DefaultMinScore = 1
)

// Normalise returns a copy with defaults applied to zero-valued fields.
func (o ImportOptions) Normalise() ImportOptions {
	if !o.DateOrder.IsValid() {
		o.DateOrder = DateOrderMDY
	}
	if o.MinScore <= 0 {
		o.MinScore = DefaultMinScore
	}
	if o.MaxItemBytes <= 0 {
		o.MaxItemBytes = DefaultMaxItemBytes
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return o
}
