package contentpath

// Strategy names the resolution branch that produced a path
type Strategy string

const (
	StrategyNone            Strategy = ""
	StrategyExternalStorage Strategy = "external_storage"
	StrategyDataColumn      Strategy = "data_column"
	StrategyDownload        Strategy = "download"
	StrategyRemoteReference Strategy = "remote_reference"
	StrategyFile            Strategy = "file"
)

// Resolution is the outcome of resolving an identifier. Either Resolved is
// true and Path holds the derived value, or the identifier could not be
// resolved and Original must be passed through unchanged.
type Resolution struct {
	Original string
	Path     string
	Resolved bool
	Strategy Strategy
	Provider Provider
}

// Unresolved returns the passthrough result for original
func Unresolved(original string, p Provider) Resolution {
	return Resolution{Original: original, Provider: p}
}

// Resolved returns a successful result
func Resolved(original, path string, s Strategy, p Provider) Resolution {
	return Resolution{Original: original, Path: path, Resolved: true, Strategy: s, Provider: p}
}

// String returns the resolved path, or the original identifier when nothing
// could be resolved. The value is not guaranteed to be a filesystem path.
func (r Resolution) String() string {
	if r.Resolved {
		return r.Path
	}
	return r.Original
}
