package ports

import (
	"context"
	"package-tracking-service/internal/domain"
)

// Port: the whole package collection behind a read-all / write-all boundary.
//
// WriteAll replaces the visible collection with exactly the given list:
// records absent from the list are deleted. A ReadAll issued after WriteAll
// returns must observe that list, in order. Implementations provide no
// locking; concurrent read-modify-write cycles race and the last writer wins.
type PackageStore interface {
	// Return the full snapshot of the collection.
	ReadAll(ctx context.Context) ([]domain.Package, error)
	// Replace the full collection with list.
	WriteAll(ctx context.Context, list []domain.Package) error
}
