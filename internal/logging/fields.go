// Package logging provides logging configuration types and utilities.
package logging

// StandardFields defines the standardized field names for structured logging
// across all components to ensure consistency and enable better log analysis.
//
//nolint:gochecknoglobals // Intentional global constants for standardized field names
var StandardFields = struct {
	// Repository Identifiers
	TemplateRepo string
	Repository   string
	RemoteName   string

	// Timing and Performance
	DurationMs string
	Timestamp  string

	// Operation Context
	Component     string
	Operation     string
	Step          string
	CorrelationID string

	// Resource Identifiers
	CommitSHA  string
	Checkpoint string
	BranchName string
	BaseBranch string
	PRNumber   string
	FilePath   string

	// Content and Size Metrics
	ContentSize string
	FileCount   string
	SizeChange  string

	// Transform Context
	FromName    string
	ToName      string
	Conversions string

	// Error Information
	Error     string
	ErrorType string
	ExitCode  string

	// Status and Progress
	Status string
	DryRun string
}{
	TemplateRepo: "template_repo",
	Repository:   "repository",
	RemoteName:   "remote",

	DurationMs: "duration_ms",
	Timestamp:  "@timestamp",

	Component:     "component",
	Operation:     "operation",
	Step:          "step",
	CorrelationID: "correlation_id",

	CommitSHA:  "commit_sha",
	Checkpoint: "checkpoint",
	BranchName: "branch_name",
	BaseBranch: "base_branch",
	PRNumber:   "pr_number",
	FilePath:   "file_path",

	ContentSize: "content_size",
	FileCount:   "file_count",
	SizeChange:  "size_change",

	FromName:    "from_name",
	ToName:      "to_name",
	Conversions: "conversions",

	Error:     "error",
	ErrorType: "error_type",
	ExitCode:  "exit_code",

	Status: "status",
	DryRun: "dry_run",
}

// ComponentNames defines standardized component names for logging consistency
//
//nolint:gochecknoglobals // Intentional global constants for standardized component names
var ComponentNames = struct {
	Git       string
	API       string
	Transform string
	Config    string
	CLI       string
	Sync      string
}{
	Git:       "git",
	API:       "github-api",
	Transform: "transform",
	Config:    "config",
	CLI:       "cli",
	Sync:      "sync-engine",
}

// OperationTypes defines standardized operation type names
//
//nolint:gochecknoglobals // Intentional global constants for standardized operation types
var OperationTypes = struct {
	GitCommand     string
	APIRequest     string
	FileRewrite    string
	PathRename     string
	ConfigResolve  string
	ConfigValidate string
	SyncExecute    string
	CredentialSwap string
}{
	GitCommand:     "git_command",
	APIRequest:     "api_request",
	FileRewrite:    "file_rewrite",
	PathRename:     "path_rename",
	ConfigResolve:  "config_resolve",
	ConfigValidate: "config_validate",
	SyncExecute:    "sync_execute",
	CredentialSwap: "credential_swap",
}
