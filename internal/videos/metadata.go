package videos

import "context"

// Metadata captures the technical details ReelVault keeps for an uploaded asset.
type Metadata struct {
	Duration string
	Width    int
	Height   int
	Format   string
	Size     int64
}

// Provider returns metadata for the supplied asset location.
type Provider interface {
	Lookup(ctx context.Context, location string) (Metadata, error)
}
