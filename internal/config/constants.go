package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultCatalogBaseURL is the ISBN lookup endpoint; the identifier is appended verbatim.
	DefaultCatalogBaseURL = "https://brasilapi.com.br/api/isbn/v1/"
)
