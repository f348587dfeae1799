// Package fn models CloudFormation intrinsic functions as composable
// expression nodes.
//
// A template property value is plain Go data (strings, numbers,
// booleans, maps, slices) freely mixed with expression nodes built by
// the constructors in this package (Ref, Join, Sub, ...). Resolve
// walks such a value and replaces every node with its intrinsic
// function form, producing a tree that serializes directly to
// template JSON or YAML:
//
//	val, err := fn.Resolve(map[string]any{
//	    "BucketName": fn.Join("-", fn.Ref("Prefix"), "logs"),
//	})
//
// Resolution is pure: it never mutates its input, and resolving a
// value that contains no nodes returns an equal value.
package fn
