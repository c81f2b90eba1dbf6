package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTimeout          = Errno{Code: 10003, Message: "Request timed out"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
)

// Business Errors (20000+)
var (
	ErrEmptyPassword      = Errno{Code: 20301, Message: "Password must not be empty"}
	ErrTransactionUnknown = Errno{Code: 20302, Message: "Transaction not found"}
	ErrQueueEmpty         = Errno{Code: 20303, Message: "No transactions awaiting confirmation"}
	ErrCoordinatorBusy    = Errno{Code: 20304, Message: "Confirmation coordinator is not accepting events"}
)
