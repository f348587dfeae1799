// Package policy statically validates rendered templates with
// OPA/Rego before anything is staged remotely.
//
// Policies are Rego modules whose deny rules receive the rendered
// template document as input. Built-in policies cover basic template
// hygiene; operators add their own .rego files on top. The package
// exposes the validation both as a library call (Evaluate) and as a
// pre-deploy hook (Hook) that aborts the deploy on error-severity
// violations.
package policy
