// Package constants provides centralized constant values used throughout flowsynth.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

// Application identity.
const (
	// AppName is the binary and configuration namespace.
	AppName = "flowsynth"

	// EnvPrefix is the prefix for configuration environment variables (FLOWSYNTH_*).
	EnvPrefix = "FLOWSYNTH"

	// ConfigHome is the hidden directory holding configuration and logs.
	ConfigHome = ".flowsynth"

	// ConfigFileName is the configuration file inside ConfigHome.
	ConfigFileName = "config.yaml"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// LogFileName is the rotating log file name.
	LogFileName = "flowsynth.log"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is how many rotated files are kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 14

	// LogCompress gzips rotated files.
	LogCompress = true
)

// Naming defaults.
const (
	// DefaultResourcesPrefix prefixes every generated physical resource name.
	DefaultResourcesPrefix = "ServerlessFlow"

	// MaxResourcesPrefixLength bounds the prefix so derived IAM names stay within limits.
	MaxResourcesPrefixLength = 17

	// MaxTaskNameLength bounds task names for the same reason.
	MaxTaskNameLength = 32

	// DefaultStage is used when no stage is configured.
	DefaultStage = "dev"

	// DefaultFunctionNamespace is the Namespace in Namespace.Task(...) calls.
	DefaultFunctionNamespace = "ServerlessFlow"

	// TaskFunctionName is the single supported function name.
	TaskFunctionName = "Task"
)

// Discovery defaults.
const (
	// DefaultStateMachinesDirectory is scanned for workflow files.
	DefaultStateMachinesDirectory = "./stateMachines"

	// DefaultTasksDirectory is scanned for task files.
	DefaultTasksDirectory = "./tasks"

	// DockerfileName is expected next to a container task's task file.
	DockerfileName = "Dockerfile"
)

// TaskFileSuffixes identify task descriptor files.
//
//nolint:gochecknoglobals // Immutable lookup table
var TaskFileSuffixes = []string{"task.yml", "task.yaml"}

// StateMachineFileSuffixes identify workflow definition files.
//
//nolint:gochecknoglobals // Immutable lookup table
var StateMachineFileSuffixes = []string{".sf.yml", ".sf.yaml"}

// Container task defaults.
const (
	// DefaultEphemeralStorage is the Fargate ephemeral storage size in GiB.
	DefaultEphemeralStorage = 21

	// DefaultRepositoryKeepMaxImages is how many untagged images the repository keeps.
	DefaultRepositoryKeepMaxImages = 3

	// ContainerName is the single container inside generated task definitions.
	ContainerName = "main"

	// ImageTag is the tag task definitions pull.
	ImageTag = "latest"
)
