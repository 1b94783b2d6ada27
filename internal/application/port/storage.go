package port

import "context"

// FileStorage stores uploaded applicant documents under a base directory
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	// GetFullPath resolves a stored relative path to a filesystem path
	GetFullPath(relativePath string) string
}
