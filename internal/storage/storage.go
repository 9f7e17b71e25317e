package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Archive keeps a copy of each original upload.
type Archive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Key builds the object key for an upload.
func Key(id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("papers/%s/%s", id, name)
}

type noopArchive struct{}

// NewNoopArchive is used when no object storage is configured.
func NewNoopArchive() Archive {
	return noopArchive{}
}

func (noopArchive) Upload(context.Context, string, []byte, string) error {
	return nil
}
