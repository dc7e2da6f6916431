package adapter

import "os"

// FileSystem reads the chain registry file
//
//go:generate mockgen -source=filesystem.go -destination=../mocks/filesystem.go -package=mocks -mock_names=FileSystem=MockFileSystem
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

type osFileSystem struct{}

// NewFileSystem returns the os backed file system
func NewFileSystem() FileSystem {
	return osFileSystem{}
}

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec,G304
}
