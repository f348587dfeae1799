// Package codegen reverse-engineers an existing CloudFormation
// template into Go source built on pkg/model and pkg/fn. It is a
// one-shot migration aid behind the `vapor import` command, not part
// of the reconciliation path: the generated file is a starting point
// the operator is expected to rename and restructure.
//
// Only the long-form intrinsic function syntax is understood; YAML
// templates using short-form tags (!Ref, !Sub) should be converted to
// long form first.
package codegen
