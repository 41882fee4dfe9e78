package listing

// Entry is a listed Vault path. Directories end with "/".
type Entry struct {
	Path string
	Type string // "directory" or "secret"
}

// Lister is the subset of the Vault client needed to walk a tree.
type Lister interface {
	ListSecrets(path string) ([]string, error)
	GetSecrets(path string) (map[string]interface{}, error)
}
