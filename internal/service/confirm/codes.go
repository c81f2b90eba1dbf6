package confirm

// FailureCode is a signer error code. The set on the wire is small and
// fixed; anything outside it is treated as unrecoverable.
type FailureCode string

const (
	// CodeWrongPassword: the supplied password did not unlock the account.
	// Recoverable, the transaction stays queued.
	CodeWrongPassword FailureCode = "2"

	// CodeDiscarded: the signing service already dropped the transaction
	// on its own initiative. Nothing left to do.
	CodeDiscarded FailureCode = "4"
)

// FailureClass is the coordinator-side classification of a failure code.
type FailureClass int

const (
	FailureWrongPassword FailureClass = iota
	FailureDiscarded
	FailureHard
)

// Classify maps a raw signer code onto a failure class. Unknown codes fall
// into the unrecoverable branch rather than being silently ignored.
func Classify(code string) FailureClass {
	switch FailureCode(code) {
	case CodeWrongPassword:
		return FailureWrongPassword
	case CodeDiscarded:
		return FailureDiscarded
	default:
		return FailureHard
	}
}
