// Package model contains the declarative building blocks of a
// CloudFormation stack: resource descriptors, resource definitions
// built from layered field sets, and the stack definition that
// renders them into a complete template document.
//
// A resource definition is an immutable, reusable template. Stacks
// hold references to definitions, never private copies, so the same
// definition can appear in many stacks. Field overriding is explicit:
// a definition carries an ordered list of field layers and the layer
// added last wins for any key it declares, replacing the runtime
// inheritance the concept is usually modeled with.
//
//	bucket := model.NewResource("Bucket", model.AWS("S3", "Bucket"), model.Fields{
//	    "BucketName": "logs-o1dc0de",
//	})
//	stack := &model.Stack{
//	    Name:      "LogStack",
//	    Resources: []*model.Resource{bucket},
//	}
//	body, err := stack.YAML()
package model
