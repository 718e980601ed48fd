package policies

import (
	"context"

	domaincontracts "leihbar/internal/domain/contracts"
)

// DocumentRenderer turns a contract snapshot into an opaque document byte
// stream. The engine does not prescribe the layout.
type DocumentRenderer interface {
	Render(ctx context.Context, contract *domaincontracts.Contract) ([]byte, error)
}

// DocumentArchive keeps a copy of rendered contract documents. Archival is
// best-effort; a failed upload never fails the render.
type DocumentArchive interface {
	Store(ctx context.Context, key string, document []byte) (url string, err error)
}
