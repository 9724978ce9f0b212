// Package internalcheck holds static checks over the bridge sources.
//
// The tests load the bridge packages with golang.org/x/tools/go/packages and
// fail when an ownership or logging rule is broken: engines are released
// through a single path and launch strings never reach a log record.
package internalcheck
