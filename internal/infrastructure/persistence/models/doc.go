// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
// Structure:
//   - base.go: AggregateModel (id, version, timestamps)
//   - catalog.go: articles
//   - partner.go: customers and producers
//   - trade.go: carts, orders and producer orders with their lines
//
// Table layout is owned by the SQL files in migrations/; AutoMigrate is only
// used by tests running against SQLite.
package models
