package config

import "time"

// Config holds the settings for one template sync run.
//
// Fields left empty after loading are filled by Resolve from the GitHub API.
type Config struct {
	Template       string `yaml:"template,omitempty"`        // Format: owner/repo
	TemplateBranch string `yaml:"template_branch,omitempty"` // Default: template's default branch
	Repository     string `yaml:"repository,omitempty"`      // Format: owner/repo

	FromName string `yaml:"from_name,omitempty"` // Default: template repository name
	ToName   string `yaml:"to_name,omitempty"`   // Default: repository name
	Rename   bool   `yaml:"rename,omitempty"`

	IgnorePaths []string `yaml:"ignore_paths,omitempty"`

	PRBranchPrefix string   `yaml:"pr_branch_prefix,omitempty"` // Default: template-sync
	PRBranch       string   `yaml:"pr_branch,omitempty"`        // Default: <prefix>/<template_branch>
	PRBase         string   `yaml:"pr_base,omitempty"`          // Default: repository default branch
	PRTitle        string   `yaml:"pr_title,omitempty"`
	PRBody         string   `yaml:"pr_body,omitempty"`
	PRLabels       []string `yaml:"pr_labels,omitempty"`

	TemplateSyncFile string `yaml:"template_sync_file,omitempty"` // Default: .templatesync
	DryRun           bool   `yaml:"dry_run,omitempty"`

	// Token is only read from the environment
	Token string `yaml:"-"`

	// RepositoryCreatedAt is filled by Resolve and anchors the first sync
	RepositoryCreatedAt time.Time `yaml:"-"`
}

// WorkingBranch returns the local branch tracking the template
func (c *Config) WorkingBranch() string {
	return TemplateRemote + "/" + c.TemplateBranch
}
