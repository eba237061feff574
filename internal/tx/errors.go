package tx

// InvalidError is the one error kind produced by the validation pipeline
// (§7): every check fails fast with the first-violated reason. Several of
// these reason strings (e.g. "no inputs", "input txes must not repeat",
// "mismatched in/out", "previous tx missing", "no stealing") are part of
// the observable contract and are quoted verbatim from the spec.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return e.Reason }

func invalid(reason string) error { return &InvalidError{Reason: reason} }
