package interfaces

// PathGuard confines all filesystem access to the configured working root.
// Resolve* methods return the cleaned absolute path or a typed error for the
// first violated check.
type PathGuard interface {
	Root() string
	MaxFileSize() int64
	Resolve(path string) (string, error)
	ResolveRead(path string) (string, error)
	ResolveWrite(path string) (string, error)
	Display(fullPath string) string
}
