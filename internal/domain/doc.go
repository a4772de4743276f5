// Package domain contains the core business entities of the task tracker:
// users, tasks and the validation rules that keep them consistent,
// independent of any storage engine or delivery mechanism.
package domain
