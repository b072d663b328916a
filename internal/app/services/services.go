// Package services contains the business logic layer. Services validate
// input, enforce domain rules and orchestrate repository calls; multi-step
// state changes are delegated to repository methods that run inside a single
// database transaction.
package services
