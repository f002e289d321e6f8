package scoring

import "fmt"

// Verdict is the outcome of scoring one donation/home pair.
// The zero value is Indeterminate so that an unset verdict is never read as a match.
type Verdict int

const (
	// Indeterminate means the scoring job produced no usable answer
	Indeterminate Verdict = iota
	// Negative means the model rejected the pair, or reported an error
	Negative
	// Positive means the model reported a match
	Positive
)

// String returns the lower-case name of the verdict
func (v Verdict) String() string {
	switch v {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "indeterminate"
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Verdict) UnmarshalText(text []byte) error {
	switch string(text) {
	case "positive":
		*v = Positive
	case "negative":
		*v = Negative
	case "indeterminate":
		*v = Indeterminate
	default:
		return fmt.Errorf("unknown verdict %q", string(text))
	}
	return nil
}
