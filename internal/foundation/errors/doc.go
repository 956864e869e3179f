// Package errors provides the classified error type used across exhibitpal.
//
// A ClassifiedError carries a category (what subsystem failed), a severity
// (whether the build can continue) and a retry strategy (whether the caller
// may try again). Builders keep construction uniform:
//
//	err := errors.SheetsError("fetch exhibition sheet").
//		WithCause(cause).
//		WithContext("spreadsheet_id", id).
//		Build()
//
// The CLI adapter maps categories to process exit codes.
package errors
