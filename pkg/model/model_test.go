package model

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/xiaket/vapor/pkg/fn"
)

func TestDescriptorKind(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		want       string
	}{
		{
			name:       "aws helper",
			descriptor: AWS("S3", "Bucket"),
			want:       "AWS::S3::Bucket",
		},
		{
			name:       "empty provider defaults",
			descriptor: Descriptor{Service: "EC2", Resource: "Instance"},
			want:       "AWS::EC2::Instance",
		},
		{
			name:       "custom provider",
			descriptor: Descriptor{Provider: "Alexa", Service: "ASK", Resource: "Skill"},
			want:       "Alexa::ASK::Skill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.descriptor.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescriptorValidate(t *testing.T) {
	if err := AWS("S3", "Bucket").Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (Descriptor{Service: "S3"}).Validate(); err == nil {
		t.Error("Validate() with empty resource: want error")
	}
	if err := (Descriptor{Service: "S3::Evil", Resource: "Bucket"}).Validate(); err == nil {
		t.Error("Validate() with separator in segment: want error")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	bucket := AWS("S3", "Bucket")
	if err := reg.Register(bucket); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(bucket); err == nil {
		t.Error("Register() duplicate: want error")
	}
	if err := reg.Register(AWS("EC2", "Instance")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	got, ok := reg.Lookup("", "S3", "Bucket")
	if !ok {
		t.Fatal("Lookup() with empty provider: not found")
	}
	if got != bucket {
		t.Errorf("Lookup() = %v, want %v", got, bucket)
	}

	if _, ok := reg.Lookup("AWS", "S3", "Queue"); ok {
		t.Error("Lookup() unknown resource: want not found")
	}

	kinds := make([]string, 0, 2)
	for _, d := range reg.List() {
		kinds = append(kinds, d.Kind())
	}
	want := []string{"AWS::EC2::Instance", "AWS::S3::Bucket"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("List() kinds = %v, want %v", kinds, want)
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TestStack", "test-stack"},
		{"TestAPIStack", "test-api-stack"},
		{"TestS3Stack", "test-s3-stack"},
		{"TestCloudformationS3Stack", "test-cloudformation-s3-stack"},
		{"Web", "web"},
		{"already-formatted", "already-formatted"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatName(tt.in); got != tt.want {
				t.Errorf("FormatName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResourceFieldsLayering(t *testing.T) {
	base := NewResource("Bucket", AWS("S3", "Bucket"),
		Fields{"BucketName": "base", "VersioningConfiguration": map[string]any{"Status": "Enabled"}},
		Fields{"BucketName": "override"},
	)

	got := base.Fields()
	if got["BucketName"] != "override" {
		t.Errorf("Fields()[BucketName] = %v, want later layer to win", got["BucketName"])
	}
	if _, ok := got["VersioningConfiguration"]; !ok {
		t.Error("Fields() lost a field only the first layer sets")
	}
}

func TestResourceExtend(t *testing.T) {
	base := NewResource("Bucket", AWS("S3", "Bucket"), Fields{
		"BucketName":    "base",
		"AccessControl": "Private",
	})
	derived := base.Extend("LogBucket", Fields{"BucketName": "logs"})

	if derived.LogicalName() != "LogBucket" {
		t.Errorf("LogicalName() = %q, want %q", derived.LogicalName(), "LogBucket")
	}
	if derived.Kind() != base.Kind() {
		t.Errorf("Kind() = %q, want inherited %q", derived.Kind(), base.Kind())
	}
	if got := derived.Fields()["BucketName"]; got != "logs" {
		t.Errorf("derived Fields()[BucketName] = %v, want override", got)
	}
	if got := derived.Fields()["AccessControl"]; got != "Private" {
		t.Errorf("derived Fields()[AccessControl] = %v, want inherited value", got)
	}
	if got := base.Fields()["BucketName"]; got != "base" {
		t.Errorf("base Fields()[BucketName] = %v, want base untouched by Extend", got)
	}
}

func TestResourceRender(t *testing.T) {
	t.Run("fields with expressions", func(t *testing.T) {
		r := NewResource("Bucket", AWS("S3", "Bucket"), Fields{
			"BucketName": fn.Sub("${AWS::StackName}-assets", nil),
		})
		got, err := r.Render()
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		want := map[string]any{
			"Type": "AWS::S3::Bucket",
			"Properties": map[string]any{
				"BucketName": map[string]any{"Fn::Sub": "${AWS::StackName}-assets"},
			},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Render() = %v, want %v", got, want)
		}
	})

	t.Run("no fields still renders properties", func(t *testing.T) {
		r := NewResource("Topic", AWS("SNS", "Topic"))
		got, err := r.Render()
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		props, ok := got["Properties"].(map[string]any)
		if !ok {
			t.Fatalf("Render() Properties = %T, want map", got["Properties"])
		}
		if len(props) != 0 {
			t.Errorf("Render() Properties = %v, want empty object", props)
		}
	})

	t.Run("non-default provider carries meta", func(t *testing.T) {
		r := NewResource("Skill", Descriptor{Provider: "Alexa", Service: "ASK", Resource: "Skill"})
		got, err := r.Render()
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		meta, ok := got["Meta"].(map[string]any)
		if !ok || meta["provider"] != "Alexa" {
			t.Errorf("Render() Meta = %v, want provider marker", got["Meta"])
		}
	})

	t.Run("lower-case field name rejected", func(t *testing.T) {
		r := NewResource("Bucket", AWS("S3", "Bucket"), Fields{"bucketName": "x"})
		if _, err := r.Render(); err == nil {
			t.Error("Render() with lower-case field: want error")
		}
	})

	t.Run("invalid descriptor rejected", func(t *testing.T) {
		r := NewResource("Broken", Descriptor{Service: "S3"})
		if _, err := r.Render(); err == nil {
			t.Error("Render() with invalid descriptor: want error")
		}
	})
}

func TestStackRemoteName(t *testing.T) {
	s := &Stack{Name: "TestAPIStack"}
	if got := s.RemoteName(); got != "test-api-stack" {
		t.Errorf("RemoteName() = %q, want derived name", got)
	}

	s.DeployOptions.Name = "custom-name"
	if got := s.RemoteName(); got != "custom-name" {
		t.Errorf("RemoteName() = %q, want override", got)
	}
}

func TestStackTemplate(t *testing.T) {
	bucket := NewResource("Bucket", AWS("S3", "Bucket"), Fields{"BucketName": "assets"})

	t.Run("no resources", func(t *testing.T) {
		s := &Stack{Name: "Empty"}
		if _, err := s.Template(); !errors.Is(err, ErrNoResources) {
			t.Errorf("Template() error = %v, want ErrNoResources", err)
		}
	})

	t.Run("duplicate logical names", func(t *testing.T) {
		s := &Stack{Name: "Dup", Resources: []*Resource{bucket, bucket.Extend("Bucket", nil)}}
		_, err := s.Template()
		if err == nil || !strings.Contains(err.Error(), "duplicate logical name") {
			t.Errorf("Template() error = %v, want duplicate name rejection", err)
		}
	})

	t.Run("minimal document", func(t *testing.T) {
		s := &Stack{Name: "Web", Resources: []*Resource{bucket}}
		got, err := s.Template()
		if err != nil {
			t.Fatalf("Template() error = %v", err)
		}
		if got["AWSTemplateFormatVersion"] != FormatVersion {
			t.Errorf("format version = %v, want %q", got["AWSTemplateFormatVersion"], FormatVersion)
		}
		for _, section := range []string{"Description", "Parameters", "Mappings", "Conditions", "Outputs", "Rules", "Metadata", "Transform"} {
			if _, ok := got[section]; ok {
				t.Errorf("Template() emitted unset section %q", section)
			}
		}
		resources, ok := got["Resources"].(map[string]any)
		if !ok || len(resources) != 1 {
			t.Fatalf("Template() Resources = %v, want one entry", got["Resources"])
		}
		if _, ok := resources["Bucket"]; !ok {
			t.Error("Template() Resources missing logical name key")
		}
	})

	t.Run("optional sections pass through", func(t *testing.T) {
		s := &Stack{
			Name:        "Web",
			Description: "static site",
			Resources:   []*Resource{bucket},
			Outputs: map[string]any{
				"BucketArn": map[string]any{"Value": fn.GetAtt("Bucket", "Arn")},
			},
			Transform: "AWS::Serverless-2016-10-31",
		}
		got, err := s.Template()
		if err != nil {
			t.Fatalf("Template() error = %v", err)
		}
		if got["Description"] != "static site" {
			t.Errorf("Description = %v", got["Description"])
		}
		if got["Transform"] != "AWS::Serverless-2016-10-31" {
			t.Errorf("Transform = %v", got["Transform"])
		}
		if _, ok := got["Outputs"]; !ok {
			t.Error("Outputs section dropped")
		}
	})
}

func TestStackEncodings(t *testing.T) {
	s := &Stack{
		Name: "Web",
		Resources: []*Resource{
			NewResource("Bucket", AWS("S3", "Bucket"), Fields{"BucketName": "assets"}),
		},
	}

	jsonBody, err := s.JSON()
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if !strings.Contains(jsonBody, `"AWS::S3::Bucket"`) {
		t.Errorf("JSON() missing resource type:\n%s", jsonBody)
	}

	yamlBody, err := s.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if !strings.Contains(yamlBody, "AWS::S3::Bucket") {
		t.Errorf("YAML() missing resource type:\n%s", yamlBody)
	}
}

func TestDeployOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		options DeployOptions
		wantErr bool
	}{
		{name: "zero value", options: DeployOptions{}},
		{
			name: "valid",
			options: DeployOptions{
				Name:         "my-stack-1",
				Capabilities: []string{"CAPABILITY_IAM", "CAPABILITY_NAMED_IAM"},
			},
		},
		{
			name:    "unknown capability",
			options: DeployOptions{Capabilities: []string{"CAPABILITY_ROOT"}},
			wantErr: true,
		},
		{
			name:    "name with underscore",
			options: DeployOptions{Name: "my_stack"},
			wantErr: true,
		},
		{
			name:    "name starting with digit",
			options: DeployOptions{Name: "1stack"},
			wantErr: true,
		},
		{
			name:    "name too long",
			options: DeployOptions{Name: strings.Repeat("a", 129)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
