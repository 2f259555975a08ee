package domain

// EnvProblem is one finding of startup configuration validation. Var names
// the environment variable at fault.
type EnvProblem struct {
	Message string `json:"message"`
	Var     string `json:"var"`
}

// ValidationResult collects configuration findings. Errors are reported by
// the env health endpoint; warnings are only logged.
type ValidationResult struct {
	Errors   []EnvProblem `json:"errors"`
	Warnings []EnvProblem `json:"warnings"`
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}
