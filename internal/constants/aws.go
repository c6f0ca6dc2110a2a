package constants

// Shared logical resource IDs. These are constant so that workflow steps can
// reference shared infrastructure without knowing the naming parameters.
const (
	ClusterLogicalID          = "ServerlessFlowEcsCluster"
	ExecutionRoleLogicalID    = "ServerlessFlowEcsExecutionRole"
	StateMachineRoleLogicalID = "ServerlessFlowStateMachineRole"
)

// Per-task logical ID suffixes, appended to the task name.
const (
	TaskDefinitionSuffix     = "TaskDefinition"
	TaskRoleSuffix           = "TaskRole"
	TaskRepositorySuffix     = "TaskEcrRepository"
	FunctionDefinitionSuffix = "FunctionDefinition"
	// LambdaFunctionSuffix is appended by the host framework to declared functions.
	LambdaFunctionSuffix = "LambdaFunction"
)

// CloudFormation resource types.
const (
	TypeECSCluster        = "AWS::ECS::Cluster"
	TypeECSTaskDefinition = "AWS::ECS::TaskDefinition"
	TypeIAMRole           = "AWS::IAM::Role"
	TypeECRRepository     = "AWS::ECR::Repository"
)

// Policy document versions.
const (
	IAMPolicyVersion = "2012-10-17"
	ECRPolicyVersion = "2008-10-17"
)

// Service principals.
const (
	PrincipalECSTasks       = "ecs-tasks.amazonaws.com"
	PrincipalECS            = "ecs.amazonaws.com"
	PrincipalCloudFormation = "cloudformation.amazonaws.com"
	PrincipalLambda         = "lambda.amazonaws.com"
	PrincipalStates         = "states.amazonaws.com"
	PrincipalEvents         = "events.amazonaws.com"
)

// Managed policy and service integration ARNs.
const (
	ECSTaskExecutionPolicyARN = "arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"
	RunTaskSyncResource       = "arn:aws:states:::ecs:runTask.sync"
)

// Workflow step values.
const (
	StepTypeTask      = "Task"
	LaunchTypeFargate = "FARGATE"
	NetworkModeAwsvpc = "awsvpc"
	PublicIPEnabled   = "ENABLED"
	PublicIPDisabled  = "DISABLED"

	// DynamicReferenceMarker in an environment value means "read from workflow input".
	DynamicReferenceMarker = "$."
	// DynamicKeySuffix marks a step parameter as resolved from workflow input.
	DynamicKeySuffix = ".$"
)

// Reserved keys of a workflow step override.
const (
	OverrideKeyName        = "Name"
	OverrideKeyEnvironment = "Environment"
	OverrideKeyNetwork     = "Network"
)
