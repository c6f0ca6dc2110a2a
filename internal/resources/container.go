package resources

import (
	"encoding/json"
	"fmt"

	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
)

// ecrActions are granted to the execution role on every task repository.
//
//nolint:gochecknoglobals // Immutable action list
var ecrActions = []string{
	"ecr:GetDownloadUrlForLayer",
	"ecr:BatchGetImage",
	"ecr:BatchCheckLayerAvailability",
	"ecr:PutImage",
	"ecr:InitiateLayerUpload",
	"ecr:UploadLayerPart",
	"ecr:CompleteLayerUpload",
	"ecr:GetAuthorizationToken",
}

// lifecyclePolicy is the repository retention policy, serialized to JSON
// text inside the repository document.
type lifecyclePolicy struct {
	Rules []lifecycleRule `json:"rules"`
}

type lifecycleRule struct {
	RulePriority int                `json:"rulePriority"`
	Description  string             `json:"description"`
	Selection    lifecycleSelection `json:"selection"`
	Action       lifecycleAction    `json:"action"`
}

type lifecycleSelection struct {
	TagStatus   string `json:"tagStatus"`
	CountType   string `json:"countType"`
	CountNumber int    `json:"countNumber"`
}

type lifecycleAction struct {
	Type string `json:"type"`
}

// containerResources emits the task definition, task role and image
// repository of a container task.
func containerResources(naming domain.NamingParameters, desc *domain.TaskDescriptor) (domain.Bundle, error) {
	spec := desc.Container
	if spec == nil {
		spec = &domain.ContainerSpec{
			EphemeralStorage:        constants.DefaultEphemeralStorage,
			RepositoryKeepMaxImages: constants.DefaultRepositoryKeepMaxImages,
		}
	}

	repo, err := repository(naming, desc.Name, spec.RepositoryKeepMaxImages)
	if err != nil {
		return nil, err
	}

	return domain.Bundle{
		desc.Name + constants.TaskDefinitionSuffix: taskDefinition(naming, desc.Name, spec),
		desc.Name + constants.TaskRoleSuffix: taskRole(naming, desc.Name, statementsOf(desc),
			constants.PrincipalCloudFormation, constants.PrincipalECS, constants.PrincipalECSTasks),
		desc.Name + constants.TaskRepositorySuffix: repo,
	}, nil
}

func taskDefinition(naming domain.NamingParameters, name string, spec *domain.ContainerSpec) domain.Document {
	family := naming.Physical(name)

	container := map[string]any{
		"Name": constants.ContainerName,
		"Image": document.Join("",
			document.GetAtt(name+constants.TaskRepositorySuffix, "RepositoryUri"),
			":"+constants.ImageTag,
		),
		"Essential": true,
		"LogConfiguration": map[string]any{
			"LogDriver": "awslogs",
			"Options": map[string]any{
				"awslogs-create-group":  true,
				"awslogs-region":        document.Ref("AWS::Region"),
				"awslogs-group":         family,
				"awslogs-stream-prefix": name,
			},
		},
		"Environment": []any{
			map[string]any{"Name": "STAGE", "Value": naming.Stage},
		},
	}

	return domain.Document{
		"Type": constants.TypeECSTaskDefinition,
		"Properties": map[string]any{
			"RequiresCompatibilities": []any{constants.LaunchTypeFargate},
			"Family":                  family,
			"Cpu":                     spec.CPU,
			"Memory":                  spec.Memory,
			"EphemeralStorage":        map[string]any{"SizeInGiB": spec.EphemeralStorage},
			"NetworkMode":             constants.NetworkModeAwsvpc,
			"ExecutionRoleArn":        document.GetAtt(constants.ExecutionRoleLogicalID, "Arn"),
			"TaskRoleArn":             document.GetAtt(name+constants.TaskRoleSuffix, "Arn"),
			"ContainerDefinitions":    []any{container},
		},
	}
}

func repository(naming domain.NamingParameters, name string, keepMaxImages int) (domain.Document, error) {
	text, err := json.Marshal(lifecyclePolicy{Rules: []lifecycleRule{{
		RulePriority: 1,
		Description:  fmt.Sprintf("Keep only last %d images", keepMaxImages),
		Selection: lifecycleSelection{
			TagStatus:   "untagged",
			CountType:   "imageCountMoreThan",
			CountNumber: keepMaxImages,
		},
		Action: lifecycleAction{Type: "expire"},
	}}})
	if err != nil {
		return nil, fmt.Errorf("encode lifecycle policy for %s: %w", name, err)
	}

	actions := make([]any, len(ecrActions))
	for i, a := range ecrActions {
		actions[i] = a
	}

	return domain.Document{
		"Type": constants.TypeECRRepository,
		"Properties": map[string]any{
			"RepositoryName": naming.RepositoryName(name),
			"LifecyclePolicy": map[string]any{
				"LifecyclePolicyText": string(text),
				"RegistryId":          document.Ref("AWS::AccountId"),
			},
			"RepositoryPolicyText": map[string]any{
				"Version": constants.ECRPolicyVersion,
				"Statement": []any{
					map[string]any{
						"Sid":    "AllowPushPull",
						"Effect": "Allow",
						"Principal": map[string]any{
							"AWS": document.GetAtt(constants.ExecutionRoleLogicalID, "Arn"),
						},
						"Action": actions,
					},
				},
			},
		},
	}, nil
}
