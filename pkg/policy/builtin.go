package policy

// BuiltinPolicies returns the policies every engine starts with.
func BuiltinPolicies() []Policy {
	return []Policy{
		templateStructurePolicy(),
		s3PublicAccessPolicy(),
	}
}

// templateStructurePolicy checks basic template hygiene: resources
// exist and every resource declares a fully qualified type.
func templateStructurePolicy() Policy {
	return Policy{
		Name:        "template-structure",
		Description: "Every resource must declare a fully qualified Type and a Properties object",
		Severity:    SeverityError,
		Enabled:     true,
		Rego: `package vapor.policies.structure

import rego.v1

deny contains violation if {
	count(input.Resources) == 0
	violation := {
		"message": "template declares no resources",
		"severity": "error",
	}
}

deny contains violation if {
	some name, resource in input.Resources
	not resource.Type
	violation := {
		"message": sprintf("resource %s has no Type", [name]),
		"severity": "error",
		"resource": name,
	}
}

deny contains violation if {
	some name, resource in input.Resources
	resource.Type
	not regex.match("^[A-Za-z0-9]+::[A-Za-z0-9]+::[A-Za-z0-9]+$", resource.Type)
	violation := {
		"message": sprintf("resource %s has malformed type %q", [name, resource.Type]),
		"severity": "error",
		"resource": name,
	}
}

deny contains violation if {
	some name, resource in input.Resources
	not resource.Properties
	violation := {
		"message": sprintf("resource %s has no Properties object", [name]),
		"severity": "error",
		"resource": name,
	}
}
`,
	}
}

// s3PublicAccessPolicy warns about S3 buckets that do not block
// public access.
func s3PublicAccessPolicy() Policy {
	return Policy{
		Name:        "s3-public-access",
		Description: "S3 buckets should configure a public access block",
		Severity:    SeverityWarning,
		Enabled:     true,
		Rego: `package vapor.policies.s3

import rego.v1

deny contains violation if {
	some name, resource in input.Resources
	resource.Type == "AWS::S3::Bucket"
	not resource.Properties.PublicAccessBlockConfiguration
	violation := {
		"message": sprintf("bucket %s does not block public access", [name]),
		"severity": "warning",
		"resource": name,
	}
}
`,
	}
}
