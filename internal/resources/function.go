package resources

import (
	"github.com/mrz1836/flowsynth/internal/constants"
	"github.com/mrz1836/flowsynth/internal/document"
	"github.com/mrz1836/flowsynth/internal/domain"
)

// functionResources emits the function definition and task role of a
// function task. The definition is a copy of the author's document with an
// empty event list and the task role filled in when unset.
func functionResources(naming domain.NamingParameters, desc *domain.TaskDescriptor) domain.Bundle {
	var def map[string]any
	if desc.Function != nil {
		def = document.CloneMap(desc.Function.Definition)
	}
	if def == nil {
		def = map[string]any{}
	}
	if _, ok := def["events"]; !ok {
		def["events"] = []any{}
	}
	if role, ok := def["role"]; !ok || role == nil || role == "" {
		def["role"] = desc.Name + constants.TaskRoleSuffix
	}

	statements := append([]any{logWriteStatement()}, statementsOf(desc)...)

	return domain.Bundle{
		desc.Name + constants.FunctionDefinitionSuffix: domain.Document(def),
		desc.Name + constants.TaskRoleSuffix: taskRole(naming, desc.Name, statements,
			constants.PrincipalLambda),
	}
}

// logWriteStatement lets a function write its own log streams.
func logWriteStatement() map[string]any {
	return map[string]any{
		"Effect": "Allow",
		"Action": []any{
			"logs:CreateLogGroup",
			"logs:CreateLogStream",
			"logs:PutLogEvents",
			"logs:TagResource",
		},
		"Resource": document.Join("",
			"arn:aws:logs:",
			document.Ref("AWS::Region"),
			":",
			document.Ref("AWS::AccountId"),
			":log-group:/aws/lambda/*:*:*",
		),
	}
}
