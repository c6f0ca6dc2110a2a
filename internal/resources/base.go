// Package resources generates the infrastructure resource documents for the
// shared base stack and for each task kind. Every generator is a pure
// function of its inputs: the same naming parameters and descriptor always
// yield an identical bundle.
package resources

import (
	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
)

// Base returns the shared resources every deployment needs regardless of
// its tasks: one cluster, the container execution role and the workflow
// runtime role. Logical IDs are fixed; naming only shapes physical names.
func Base(naming domain.NamingParameters) domain.Bundle {
	return domain.Bundle{
		constants.ClusterLogicalID:          cluster(naming),
		constants.ExecutionRoleLogicalID:    executionRole(naming),
		constants.StateMachineRoleLogicalID: stateMachineRole(naming),
	}
}

func cluster(naming domain.NamingParameters) domain.Document {
	return domain.Document{
		"Type": constants.TypeECSCluster,
		"Properties": map[string]any{
			"ClusterName": naming.Physical("EcsCluster"),
		},
	}
}

func executionRole(naming domain.NamingParameters) domain.Document {
	logManagement := map[string]any{
		"Sid":    "AllowLogManagement",
		"Effect": "Allow",
		"Action": []any{"logs:CreateLogGroup", "logs:CreateLogStream", "logs:PutLogEvents"},
		"Resource": []any{
			document.Join(":",
				"arn:aws:logs",
				document.Ref("AWS::Region"),
				document.Ref("AWS::AccountId"),
				"log-group",
				naming.Prefix+"*",
			),
		},
	}

	return domain.Document{
		"Type": constants.TypeIAMRole,
		"Properties": map[string]any{
			"RoleName":                 naming.Physical("EcsExecutionRole"),
			"AssumeRolePolicyDocument": trustPolicy(constants.PrincipalECSTasks),
			"ManagedPolicyArns":        []any{constants.ECSTaskExecutionPolicyARN},
			"Policies": []any{
				inlinePolicy("inline", []any{logManagement}),
			},
		},
	}
}

func stateMachineRole(naming domain.NamingParameters) domain.Document {
	statements := []any{
		map[string]any{
			"Effect":   "Allow",
			"Action":   []any{"sts:AssumeRole", "lambda:InvokeFunction", "ecs:RunTask"},
			"Resource": []any{"*"},
		},
		map[string]any{
			"Effect": "Allow",
			"Action": []any{"iam:PassRole"},
			"Resource": []any{
				document.GetAtt(constants.ExecutionRoleLogicalID, "Arn"),
				"arn:aws:iam::${aws:accountId}:role/" + naming.Prefix + "*",
			},
		},
	}

	trust := trustPolicy(constants.PrincipalStates, constants.PrincipalEvents, constants.PrincipalLambda)
	delete(trust, "Version")

	return domain.Document{
		"Type": constants.TypeIAMRole,
		"Properties": map[string]any{
			"RoleName":                 naming.Physical("StateMachineRole"),
			"Path":                     "/",
			"AssumeRolePolicyDocument": trust,
			"Policies": []any{
				inlinePolicy(naming.Physical("StateMachinePolicy"), statements),
			},
		},
	}
}

// trustPolicy lets the given service principals assume a role.
func trustPolicy(principals ...string) map[string]any {
	services := make([]any, len(principals))
	for i, p := range principals {
		services[i] = p
	}
	return map[string]any{
		"Version": constants.IAMPolicyVersion,
		"Statement": []any{
			map[string]any{
				"Effect":    "Allow",
				"Principal": map[string]any{"Service": services},
				"Action":    []any{"sts:AssumeRole"},
			},
		},
	}
}

func inlinePolicy(name string, statements []any) map[string]any {
	return map[string]any{
		"PolicyName": name,
		"PolicyDocument": map[string]any{
			"Version":   constants.IAMPolicyVersion,
			"Statement": statements,
		},
	}
}
