// Package automation translates evaluated rule actions into per-card
// execution plans and exposes the two hooks that trigger automation: card
// import and source-link update.
//
// Rule matching, plan execution and card storage are external collaborators
// consumed through the interfaces in types.go. Hooks never let a failure
// propagate to the operation that triggered them.
package automation
