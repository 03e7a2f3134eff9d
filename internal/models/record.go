// Package models defines the domain data types shared across packages.
package models

// Record holds the fields extracted from one access-log line.
type Record struct {
	RequestPath  string
	Status       string
	ReferrerHost string
	Customer     string
	Bytes        int64
	Success      bool
}
