// Package repository contains data access logic separated from HTTP
// handlers. Each repository wraps plain SQL against a *sql.DB and surfaces
// misses and constraint violations as sentinel errors so handlers can map
// them onto HTTP status codes without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the unique email
// constraint. Handlers translate this into an HTTP 400 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned when a user lookup by email, name or id
// misses.
var ErrUserNotFound = errors.New("user not found")

// ErrMagazineNotFound is returned when a magazine cannot be found.
var ErrMagazineNotFound = errors.New("magazine not found")

// ErrPlanNotFound is returned when a plan cannot be found.
var ErrPlanNotFound = errors.New("plan not found")

// ErrSubscriptionNotFound is returned when a subscription cannot be found.
var ErrSubscriptionNotFound = errors.New("subscription not found")
