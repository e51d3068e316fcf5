package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-novels/internal/commands"
	"github.com/goliatone/go-novels/internal/reading"
	"github.com/goliatone/go-novels/pkg/interfaces/logger"
)

// Re-export request types so consumers need not import internal packages.
type (
	AddFavorite    = internalcommands.AddFavorite
	RemoveFavorite = internalcommands.RemoveFavorite
	RecordReading  = internalcommands.RecordReading
	Logout         = internalcommands.Logout
	RecordInput    = reading.RecordInput
)

// Registry exposes go-command compatible handlers backed by the module services.
type Registry struct {
	Catalog        *internalcommands.Catalog
	AddFavorite    command.Commander[AddFavorite]
	RemoveFavorite command.Commander[RemoveFavorite]
	RecordReading  command.Commander[RecordReading]
	Logout         command.Commander[Logout]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies = internalcommands.Dependencies

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}
	catalog, err := internalcommands.NewCatalog(deps)
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:        catalog,
		AddFavorite:    catalog.AddFavorite,
		RemoveFavorite: catalog.RemoveFavorite,
		RecordReading:  catalog.RecordReading,
		Logout:         catalog.Logout,
	}, nil
}

// Commanders returns every handler so callers can register them with go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.AddFavorite,
		r.RemoveFavorite,
		r.RecordReading,
		r.Logout,
	}
}
