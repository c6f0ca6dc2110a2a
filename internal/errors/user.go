package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to user-facing messages.
// Order matters: the most specific sentinels come first because a
// ReferenceError matches both ErrReference and its cause.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrUnsupportedKind,
		info: ErrorInfo{
			Message: "A task file declares an unsupported kind.",
			Action:  "Use kind CONTAINER (or ECS) or FUNCTION (or LAMBDA), or set unknownKindPolicy: tolerant.",
		},
	},
	{
		err: ErrValidation,
		info: ErrorInfo{
			Message: "A task descriptor failed validation.",
			Action:  "Fix the reported field in the task file and retry.",
		},
	},
	{
		err: ErrTaskNameMissing,
		info: ErrorInfo{
			Message: "A workflow call is missing its Name field.",
			Action:  "Add Name: <TaskName> to the call arguments.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "A workflow references a task that does not exist.",
			Action:  "Check the task name spelling or add a task.yml for it under the tasks directory.",
		},
	},
	{
		err: ErrTaskDuplicate,
		info: ErrorInfo{
			Message: "Two task files declare the same task name.",
			Action:  "Rename one of the tasks; generated resource names must be unique.",
		},
	},
	{
		err: ErrSyntax,
		info: ErrorInfo{
			Message: "A workflow file contains a malformed function call.",
			Action:  "Check parentheses and the inline map literal passed to the call.",
		},
	},
	{
		err: ErrConfigInvalidNaming,
		info: ErrorInfo{
			Message: "The resources prefix or suffix is invalid.",
			Action:  "Use an alphanumeric resourcesPrefix of at most 17 characters.",
		},
	},
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Invalid output format specified.",
			Action:  "Use --output text or --output json.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve the issue.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
