package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/catalog"
	"github.com/mrlokans/bookshelf/internal/cli"
	"github.com/mrlokans/bookshelf/internal/customers"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	dbcustomers "github.com/mrlokans/bookshelf/internal/database/customers"
	dbfavourites "github.com/mrlokans/bookshelf/internal/database/favourites"
	"github.com/mrlokans/bookshelf/internal/database/tokens"
	"github.com/mrlokans/bookshelf/internal/favourites"
	"github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/metadata"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ catalog.BookRepository = (*books.Repository)(nil)
var _ customers.Repository = (*dbcustomers.Repository)(nil)
var _ favourites.RelationStore = (*dbfavourites.Repository)(nil)
var _ auth.TokenStore = (*tokens.Repository)(nil)

// =============================================================================
// External Services
// =============================================================================

var _ catalog.Fetcher = (*metadata.Client)(nil)
var _ cli.Fetcher = (*metadata.Client)(nil)
var _ metadata.Cache = (*metadata.MemoryCache)(nil)

// =============================================================================
// Domain Services
// =============================================================================

var _ favourites.CustomerResolver = (*customers.Service)(nil)
var _ favourites.Catalog = (*catalog.Store)(nil)
var _ tasks.FavouriteAdder = (*favourites.Manager)(nil)

// =============================================================================
// HTTP Layer
// =============================================================================

var _ http.HealthChecker = (*database.Database)(nil)
var _ http.CustomerService = (*customers.Service)(nil)
var _ http.FavoriteService = (*favourites.Manager)(nil)
var _ http.CustomerRemover = (*favourites.Manager)(nil)
var _ http.BulkSubmitter = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)

// =============================================================================
// Scheduled Jobs
// =============================================================================

var _ scheduler.CachePruner = (metadata.Cache)(nil)
var _ scheduler.TokenCleaner = (*auth.Service)(nil)
var _ scheduler.AttemptCleaner = (*auth.RateLimiter)(nil)
