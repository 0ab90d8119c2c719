// Package testutil contains helper builders and utilities used across tests
// to reduce boilerplate when constructing instruction directories, messages
// and environments. These helpers are not intended for production usage.
package testutil
