// Package domain defines the access-control model: clients, groups and the
// principals derived from authenticated callers.
//
// Access is bipartite. Clients never hold grants on secrets directly: a client
// reads a secret only when some group both contains the client and carries a
// grant on the secret's series. Removing either edge severs access.
package domain

import "time"

// Client is a mutually-authenticated consumer of secrets, identified by the
// common name of its certificate. Automation marks clients allowed to drive
// the management API in addition to reading secrets.
type Client struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	CreatedBy   string
	UpdatedAt   time.Time
	UpdatedBy   string
	Automation  bool
}
