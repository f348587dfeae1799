package engine

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// FormatChanges renders a change list for operators, one line per
// resource change:
//
//	[ADD] Bucket(AWS::S3::Bucket)
func FormatChanges(changes []types.Change) string {
	parts := make([]string, 0, len(changes))
	for _, change := range changes {
		rc := change.ResourceChange
		if rc == nil {
			continue
		}
		line := fmt.Sprintf(
			"[%s] %s(%s)",
			strings.ToUpper(string(rc.Action)),
			aws.ToString(rc.LogicalResourceId),
			aws.ToString(rc.ResourceType),
		)
		if len(rc.Details) > 0 {
			line += fmt.Sprintf(":\n\t%s", formatDetails(rc.Details))
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func formatDetails(details []types.ResourceChangeDetail) string {
	parts := make([]string, 0, len(details))
	for _, d := range details {
		if d.Target == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf(
			"%s %s (%s)",
			string(d.Target.Attribute),
			aws.ToString(d.Target.Name),
			string(d.ChangeSource),
		))
	}
	return strings.Join(parts, ", ")
}
