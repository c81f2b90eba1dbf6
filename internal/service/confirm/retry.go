package confirm

// DefaultRetryCeiling bounds consecutive wrong-password attempts before the
// confirmation UI is reset.
const DefaultRetryCeiling = 3

// RetryGuard tracks consecutive wrong-password failures against a ceiling.
// Hitting the ceiling is an observable UI reset, not a durable lockout: the
// counter returns to zero inside the same transition and further attempts
// are allowed.
type RetryGuard struct {
	count   int
	ceiling int
}

func NewRetryGuard(ceiling int) *RetryGuard {
	if ceiling <= 0 {
		ceiling = DefaultRetryCeiling
	}
	return &RetryGuard{ceiling: ceiling}
}

// OnWrongPassword records one wrong-password failure. It reports true when
// the ceiling was reached, in which case the counter has already been reset
// and the caller must emit the UI-clear signals.
func (g *RetryGuard) OnWrongPassword() bool {
	g.count++
	if g.count >= g.ceiling {
		g.count = 0
		return true
	}
	return false
}

// Reset clears the counter. Called at session open and on a successful
// unlock. Non-password failures leave the counter untouched.
func (g *RetryGuard) Reset() {
	g.count = 0
}

func (g *RetryGuard) Count() int {
	return g.count
}

func (g *RetryGuard) Ceiling() int {
	return g.ceiling
}
