package errors

import (
	"github.com/pingcap/errors"
)

// all errors in the taskres module
var (
	// ErrInvalidTaskFunc is returned when a value handed to task.New cannot
	// be adapted into a task function.
	ErrInvalidTaskFunc = errors.Normalize(
		"invalid task function: %s",
		errors.RFCCodeText("TASKRES:ErrInvalidTaskFunc"),
	)
	// ErrUnsupportedParamKind is returned for parameter kinds that cannot
	// be classified as a resource access.
	ErrUnsupportedParamKind = errors.Normalize(
		"unsupported task parameter kind %s for parameter %d",
		errors.RFCCodeText("TASKRES:ErrUnsupportedParamKind"),
	)
)
