package models

// PushEvent is the GitLab push hook body sent to the tracker's listener.
// Field order is the wire order.
type PushEvent struct {
	ObjectKind        string       `json:"object_kind" yaml:"object_kind"`
	Before            string       `json:"before" yaml:"before"`
	After             string       `json:"after" yaml:"after"`
	Ref               string       `json:"ref" yaml:"ref"`
	CheckoutSHA       string       `json:"checkout_sha" yaml:"checkout_sha"`
	Repository        Repository   `json:"repository" yaml:"repository"`
	ProjectID         int64        `json:"project_id" yaml:"project_id"`
	Commits           []PushCommit `json:"commits" yaml:"commits"`
	TotalCommitsCount int          `json:"total_commits_count" yaml:"total_commits_count"`
}

// Repository describes the remote repository in a push event
type Repository struct {
	URL         string `json:"url" yaml:"url"`
	Homepage    string `json:"homepage" yaml:"homepage"`
	Description string `json:"description" yaml:"description"`
	GitHTTPURL  string `json:"git_http_url" yaml:"git_http_url"`
	GitSSHURL   string `json:"git_ssh_url" yaml:"git_ssh_url"`
}

// PushCommit is a single commit record in a push event
type PushCommit struct {
	ID        string     `json:"id" yaml:"id"`
	Message   string     `json:"message" yaml:"message"`
	Timestamp string     `json:"timestamp" yaml:"timestamp"`
	URL       string     `json:"url" yaml:"url"`
	Author    PushAuthor `json:"author" yaml:"author"`
	Added     []string   `json:"added" yaml:"added"`
	Modified  []string   `json:"modified" yaml:"modified"`
	Removed   []string   `json:"removed" yaml:"removed"`
}

// PushAuthor is the author of a PushCommit
type PushAuthor struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}
