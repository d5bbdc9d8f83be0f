package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrMailboxFull = fmt.Errorf("mailbox full, message dropped")
)
