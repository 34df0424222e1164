// Package app provides the application service layer.
//
// Orchestrates the tool use cases: validate the form, admit the request against
// the session's daily quota, render the prompt, call the generator and
// normalize its output. Depends on domain interfaces, not concrete adapters.
package app
