package tools

// ParamType is the JSON-schema type of a tool parameter
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeBoolean ParamType = "boolean"
	TypeNumber  ParamType = "number"
)

// Param describes one tool argument
type Param struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Default     any // nil when the parameter has no default
}

// Definition describes one tool
type Definition struct {
	Name        string
	Description string
	ReadOnly    bool
	Params      []Param
}

const repoPathDescription = "Path to the git repository (optional, defaults to current directory)"

func repoPathParam() Param {
	return Param{Name: "repo_path", Type: TypeString, Description: repoPathDescription, Default: "."}
}

// Definitions lists every tool in registration order
var Definitions = []Definition{
	{
		Name:        "get_git_status",
		ReadOnly:    true,
		Description: "Get the current git status of the repository",
		Params:      []Param{repoPathParam()},
	},
	{
		Name:        "list_branches",
		ReadOnly:    true,
		Description: "List all branches in the repository",
		Params: []Param{
			repoPathParam(),
			{Name: "remote", Type: TypeBoolean, Description: "Include remote branches", Default: false},
		},
	},
	{
		Name:        "create_pr_summary",
		ReadOnly:    true,
		Description: "Create a summary for a pull request based on git diff",
		Params: []Param{
			{Name: "base_branch", Type: TypeString, Description: "Base branch to compare against", Required: true},
			{Name: "head_branch", Type: TypeString, Description: "Head branch (optional, defaults to current branch)"},
			repoPathParam(),
		},
	},
	{
		Name:        "get_commit_history",
		ReadOnly:    true,
		Description: "Get commit history for a branch or between branches",
		Params: []Param{
			{Name: "branch", Type: TypeString, Description: "Branch name (optional, defaults to current branch)"},
			{Name: "limit", Type: TypeNumber, Description: "Maximum number of commits to return", Default: 10},
			repoPathParam(),
		},
	},
	{
		Name:        "get_git_diff",
		ReadOnly:    true,
		Description: "Get git diff between commits, branches, or working directory",
		Params: []Param{
			{Name: "target", Type: TypeString, Description: "Target to diff against (commit hash, branch name, etc.). Defaults to working directory vs HEAD"},
			repoPathParam(),
		},
	},
	{
		Name: "clone_repository",
		Description: "Clones a GitHub repository into a new temporary local directory, cleans up any previous one, " +
			"saves state, and sets it as the active repository. Parses owner/name from URL.",
		Params: []Param{
			{Name: "repo_url", Type: TypeString, Description: "The URL of the GitHub repository (e.g., https://github.com/user/repo.git)", Required: true},
		},
	},
	{
		Name:        "create_git_branch",
		Description: "Creates a new branch in the active local git repository.",
		Params: []Param{
			{Name: "branch_name", Type: TypeString, Description: "The name of the new branch to create", Required: true},
			{Name: "base_branch", Type: TypeString, Description: "The base branch to create the new branch from (optional, defaults to current HEAD)"},
		},
	},
	{
		Name: "write_file_in_repo",
		Description: "Creates a new file or overwrites an existing file with specified content within the active repository. " +
			"Ensures parent directories are created.",
		Params: []Param{
			{Name: "relative_file_path", Type: TypeString, Description: "The path of the file relative to the active repository root (e.g., src/main.go)", Required: true},
			{Name: "content", Type: TypeString, Description: "The string content to write to the file", Required: true},
		},
	},
	{
		Name:        "read_file_in_repo",
		ReadOnly:    true,
		Description: "Reads the content of a specified file within the active repository.",
		Params: []Param{
			{Name: "relative_file_path", Type: TypeString, Description: "The path of the file relative to the active repository root (e.g., src/main.go)", Required: true},
		},
	},
	{
		Name:        "list_files_in_repo",
		ReadOnly:    true,
		Description: "Lists all files within the active repository, providing their paths relative to the repo root.",
	},
	{
		Name:        "git_commit_changes",
		Description: "Stages all changes (git add .) and commits them with a given message in the active repository.",
		Params: []Param{
			{Name: "commit_message", Type: TypeString, Description: "The commit message", Required: true},
		},
	},
	{
		Name:        "git_push_branch",
		Description: "Pushes a local branch from the active repository to the remote (origin).",
		Params: []Param{
			{Name: "branch_name", Type: TypeString, Description: "The name of the local branch to push", Required: true},
			{Name: "set_upstream", Type: TypeBoolean, Description: "Set the upstream for the branch (git push -u origin <branch_name>)", Default: true},
		},
	},
	{
		Name:        "create_github_pr",
		Description: "Creates a pull request on GitHub for the active repository.",
		Params: []Param{
			{Name: "title", Type: TypeString, Description: "The title of the pull request", Required: true},
			{Name: "body", Type: TypeString, Description: "The body/description of the pull request", Required: true},
			{Name: "base_branch", Type: TypeString, Description: "The branch to merge into (e.g., main, develop)", Required: true},
			{Name: "head_branch", Type: TypeString, Description: "The branch containing the changes to be merged (must be pushed to remote)", Required: true},
			{Name: "draft", Type: TypeBoolean, Description: "Open the pull request as a draft", Default: false},
		},
	},
}

// Lookup returns the definition of name
func Lookup(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}

	return Definition{}, false
}
