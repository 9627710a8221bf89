package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// MySQLMembershipRepository implements the bipartite access edges for MySQL.
type MySQLMembershipRepository struct {
	db *sql.DB
}

// NewMySQLMembershipRepository creates a new MySQL membership repository instance.
func NewMySQLMembershipRepository(db *sql.DB) *MySQLMembershipRepository {
	return &MySQLMembershipRepository{db: db}
}

// Enroll adds a client to a group. Enrolling twice is a no-op.
func (m *MySQLMembershipRepository) Enroll(ctx context.Context, clientID, groupID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO memberships (clientid, groupid) VALUES (?, ?)`
	if _, err := querier.ExecContext(ctx, query, clientID, groupID); err != nil {
		return storeErr(err, "failed to enroll client in group")
	}
	return nil
}

// Evict removes a client from a group. Evicting an absent membership is a no-op.
func (m *MySQLMembershipRepository) Evict(ctx context.Context, clientID, groupID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM memberships WHERE clientid = ? AND groupid = ?`
	if _, err := querier.ExecContext(ctx, query, clientID, groupID); err != nil {
		return storeErr(err, "failed to evict client from group")
	}
	return nil
}

// Allow grants a group access to a secret series. Granting twice is a no-op.
func (m *MySQLMembershipRepository) Allow(ctx context.Context, groupID, seriesID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT IGNORE INTO accessgrants (groupid, secretid) VALUES (?, ?)`
	if _, err := querier.ExecContext(ctx, query, groupID, seriesID); err != nil {
		return storeErr(err, "failed to grant access")
	}
	return nil
}

// Disallow revokes a group's access to a secret series. Revoking an absent
// grant is a no-op.
func (m *MySQLMembershipRepository) Disallow(ctx context.Context, groupID, seriesID int64) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM accessgrants WHERE groupid = ? AND secretid = ?`
	if _, err := querier.ExecContext(ctx, query, groupID, seriesID); err != nil {
		return storeErr(err, "failed to revoke access")
	}
	return nil
}

// GroupsForClient returns the groups a client is enrolled in.
func (m *MySQLMembershipRepository) GroupsForClient(
	ctx context.Context,
	clientID int64,
) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT g.id, g.name, COALESCE(g.description, ''), g.createdat, g.createdby,
				g.updatedat, g.updatedby, g.metadata
			  FROM groups g
			  JOIN memberships ms ON ms.groupid = g.id
			  WHERE ms.clientid = ?
			  ORDER BY g.id ASC`
	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, storeErr(err, "failed to list groups for client")
	}
	defer rows.Close()

	return collectGroups(rows)
}

// ClientsForGroup returns the clients enrolled in a group.
func (m *MySQLMembershipRepository) ClientsForGroup(
	ctx context.Context,
	groupID int64,
) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT c.id, c.name, COALESCE(c.description, ''), c.createdat, c.createdby,
				c.updatedat, c.updatedby, c.automation
			  FROM clients c
			  JOIN memberships ms ON ms.clientid = c.id
			  WHERE ms.groupid = ?
			  ORDER BY c.id ASC`
	rows, err := querier.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, storeErr(err, "failed to list clients for group")
	}
	defer rows.Close()

	return collectClients(rows)
}

// SeriesForGroup returns the secret series granted to a group.
func (m *MySQLMembershipRepository) SeriesForGroup(
	ctx context.Context,
	groupID int64,
) ([]*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT s.id, s.name, COALESCE(s.description, ''), s.createdat, s.createdby,
				s.updatedat, s.updatedby, COALESCE(s.type, ''), s.options, s.metadata
			  FROM secrets s
			  JOIN accessgrants a ON a.secretid = s.id
			  WHERE a.groupid = ?
			  ORDER BY s.id ASC`
	rows, err := querier.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, storeErr(err, "failed to list series for group")
	}
	defer rows.Close()

	return collectSeries(rows)
}

// GroupsForSeries returns the groups holding a grant on a secret series.
func (m *MySQLMembershipRepository) GroupsForSeries(
	ctx context.Context,
	seriesID int64,
) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT g.id, g.name, COALESCE(g.description, ''), g.createdat, g.createdby,
				g.updatedat, g.updatedby, g.metadata
			  FROM groups g
			  JOIN accessgrants a ON a.groupid = g.id
			  WHERE a.secretid = ?
			  ORDER BY g.id ASC`
	rows, err := querier.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, storeErr(err, "failed to list groups for series")
	}
	defer rows.Close()

	return collectGroups(rows)
}

// SeriesForClient returns every secret series the client can read through any
// of its groups.
func (m *MySQLMembershipRepository) SeriesForClient(
	ctx context.Context,
	clientID int64,
) ([]*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DISTINCT s.id, s.name, COALESCE(s.description, ''), s.createdat, s.createdby,
				s.updatedat, s.updatedby, COALESCE(s.type, ''), s.options, s.metadata
			  FROM secrets s
			  JOIN accessgrants a ON a.secretid = s.id
			  JOIN memberships ms ON ms.groupid = a.groupid
			  WHERE ms.clientid = ?
			  ORDER BY s.id ASC`
	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, storeErr(err, "failed to list series for client")
	}
	defer rows.Close()

	return collectSeries(rows)
}

// ClientsForSeries returns every client that can read the series through any
// group.
func (m *MySQLMembershipRepository) ClientsForSeries(
	ctx context.Context,
	seriesID int64,
) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT DISTINCT c.id, c.name, COALESCE(c.description, ''), c.createdat, c.createdby,
				c.updatedat, c.updatedby, c.automation
			  FROM clients c
			  JOIN memberships ms ON ms.clientid = c.id
			  JOIN accessgrants a ON a.groupid = ms.groupid
			  WHERE a.secretid = ?
			  ORDER BY c.id ASC`
	rows, err := querier.QueryContext(ctx, query, seriesID)
	if err != nil {
		return nil, storeErr(err, "failed to list clients for series")
	}
	defer rows.Close()

	return collectClients(rows)
}

// MayAccess reports whether some group both contains the client and carries a
// grant on the series.
func (m *MySQLMembershipRepository) MayAccess(
	ctx context.Context,
	clientID, seriesID int64,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
				SELECT 1
				FROM memberships ms
				JOIN accessgrants a ON a.groupid = ms.groupid
				WHERE ms.clientid = ? AND a.secretid = ?
			  )`

	var allowed bool
	if err := querier.QueryRowContext(ctx, query, clientID, seriesID).Scan(&allowed); err != nil {
		return false, storeErr(err, "failed to check access")
	}
	return allowed, nil
}
