// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # Shared book catalog (one row per ISBN)
//	├── customers/       # Customer CRUD
//	├── favourites/      # customer_favorite_books join table
//	└── tokens/          # Issued API token hashes
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	favouritesRepo := favourites.NewRepository(db.DB)
//
//	book, created, err := booksRepo.CreateIfAbsent(&entities.Book{ISBN: "9788535902774"})
//	err = favouritesRepo.Link(customerID, book.ISBN)
//
// # Interface Implementations
//
//   - books.Repository: implements catalog.BookRepository
//   - customers.Repository: implements customers.Repository
//   - favourites.Repository: implements favourites.RelationStore
//   - tokens.Repository: implements auth.TokenStore
//
// Unique constraint violations surface as gorm.ErrDuplicatedKey because the
// connection is opened with TranslateError enabled.
package database
