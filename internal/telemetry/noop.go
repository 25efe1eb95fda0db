package telemetry

// Noop discards everything. Useful as a default and in tests that
// don't care about diagnostic output.
type Noop struct{}

func (Noop) Infof(string, ...any)  {}
func (Noop) Warnf(string, ...any)  {}
func (Noop) Errorf(string, ...any) {}

func (Noop) EventDropped(string, string)       {}
func (Noop) FileDeleted(string, string)        {}
func (Noop) FileRetained(string, string)       {}
func (Noop) BlockerObserved(string, string)    {}
func (Noop) UploadOutcome(string, string)      {}
func (Noop) IOError(string, string, error)     {}
