// Package postgres implements the durable account gateway on pgx. Unique
// constraints on email and oauth_id are the authority for identity races;
// the adapter translates SQLSTATE 23505 to identity.ErrDuplicateKey and
// missing rows to identity.ErrAccountNotFound.
package postgres
