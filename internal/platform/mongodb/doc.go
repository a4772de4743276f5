// Package mongodb provides MongoDB implementations of the store interfaces.
// Like the postgres package, every operation borrows its *mongo.Database from
// the connection gateway, so the stores fail fast with
// store.ErrStoreUnavailable while the server is unreachable.
package mongodb
