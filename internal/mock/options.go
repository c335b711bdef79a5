package mock

// Options are the caller-tunable knobs for synthetic value generation.
// They are immutable per call; there is no shared mutable configuration.
type Options struct {
	// MaxArrayLength caps generated array lengths. Schema maxItems below the
	// cap wins.
	MaxArrayLength int
	// UseExamples returns a schema's example verbatim when present,
	// bypassing type-directed synthesis entirely.
	UseExamples bool
	// GenerateRandomStrings produces random alphanumeric strings; when
	// false, unformatted strings are the literal "string".
	GenerateRandomStrings bool
}

// DefaultOptions returns the built-in generation defaults.
func DefaultOptions() Options {
	return Options{
		MaxArrayLength:        3,
		UseExamples:           true,
		GenerateRandomStrings: true,
	}
}
