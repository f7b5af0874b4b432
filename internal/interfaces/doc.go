// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - catalog.BookRepository: Insert-if-absent book rows (internal/database/books)
//   - customers.Repository: Customer CRUD (internal/database/customers)
//   - favourites.RelationStore: Customer/book links (internal/database/favourites)
//   - auth.TokenStore: Issued API tokens (internal/database/tokens)
//
// ## External Service Interfaces
//
//   - catalog.Fetcher: ISBN lookups with retry and caching (internal/metadata)
//   - metadata.Cache: Lookup cache with optional TTL and size bounds
//
// ## Domain Interfaces
//
//   - favourites.CustomerResolver: Existence check before touching favourites
//   - favourites.Catalog: Get-or-fetch of shared catalog books
//   - tasks.FavouriteAdder: What the bulk worker calls per item
//
// # Adding a New Catalog Provider
//
//  1. Implement catalog.Fetcher:
//
//     type OpenLibraryClient struct { httpClient *http.Client }
//
//     func (c *OpenLibraryClient) Fetch(ctx context.Context, isbn string) (*metadata.BookRecord, error)
//
//  2. Return metadata.ErrNotFound for a definitive miss so the store does not
//     retry, and anything else for transient failures.
//
//  3. Pass it to catalog.NewStore in entrypoint.go.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
