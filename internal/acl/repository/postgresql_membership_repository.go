package repository

import (
	"context"
	"database/sql"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/database"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// PostgreSQLMembershipRepository implements the bipartite access edges for
// PostgreSQL: client-group memberships and group-series access grants.
type PostgreSQLMembershipRepository struct {
	db *sql.DB
}

// NewPostgreSQLMembershipRepository creates a new PostgreSQL membership repository instance.
func NewPostgreSQLMembershipRepository(db *sql.DB) *PostgreSQLMembershipRepository {
	return &PostgreSQLMembershipRepository{db: db}
}

// Enroll adds a client to a group. Enrolling twice is a no-op.
func (p *PostgreSQLMembershipRepository) Enroll(ctx context.Context, clientID, groupID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO memberships (clientid, groupid) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := querier.ExecContext(ctx, query, clientID, groupID); err != nil {
		return storeErr(err, "failed to enroll client in group")
	}
	return nil
}

// Evict removes a client from a group. Evicting an absent membership is a no-op.
func (p *PostgreSQLMembershipRepository) Evict(ctx context.Context, clientID, groupID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM memberships WHERE clientid = $1 AND groupid = $2`
	if _, err := querier.ExecContext(ctx, query, clientID, groupID); err != nil {
		return storeErr(err, "failed to evict client from group")
	}
	return nil
}

// Allow grants a group access to a secret series. Granting twice is a no-op.
func (p *PostgreSQLMembershipRepository) Allow(ctx context.Context, groupID, seriesID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO accessgrants (groupid, secretid) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := querier.ExecContext(ctx, query, groupID, seriesID); err != nil {
		return storeErr(err, "failed to grant access")
	}
	return nil
}

// Disallow revokes a group's access to a secret series. Revoking an absent
// grant is a no-op.
func (p *PostgreSQLMembershipRepository) Disallow(ctx context.Context, groupID, seriesID int64) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM accessgrants WHERE groupid = $1 AND secretid = $2`
	if _, err := querier.ExecContext(ctx, query, groupID, seriesID); err != nil {
		return storeErr(err, "failed to revoke access")
	}
	return nil
}

// GroupsForClient returns the groups a client is enrolled in.
func (p *PostgreSQLMembershipRepository) GroupsForClient(
	ctx context.Context,
	clientID int64,
) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT g.id, g.name, COALESCE(g.description, ''), g.createdat, g.createdby,
				g.updatedat, g.updatedby, g.metadata
			  FROM groups g
			  JOIN memberships m ON m.groupid = g.id
			  WHERE m.clientid = $1
			  ORDER BY g.id ASC`
	rows, err := querier.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, storeErr(err, "failed to list groups for client")
	}
	defer rows.Close()

	return collectGroups(rows)
}

// ClientsForGroup returns the clients enrolled in a group.
func (p *PostgreSQLMembershipRepository) ClientsForGroup(
	ctx context.Context,
	groupID int64,
) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT c.id, c.name, COALESCE(c.description, ''), c.createdat, c.createdby,
				c.updatedat, c.updatedby, c.automation
			  FROM clients c
			  JOIN memberships m ON m.clientid = c.id
			  WHERE m.groupid = $1
			  ORDER BY c.id ASC`
	rows, err := querier.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, storeErr(err, "failed to list clients for group")
	}
	defer rows.Close()

	return collectClients(rows)
}

// SeriesForGroup returns the secret series granted to a group.
func (p *PostgreSQLMembershipRepository) SeriesForGroup(
	ctx context.Context,
	groupID int64,
) ([]*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT s.id, s.name, COALESCE(s.description, ''), s.createdat, s.createdby,
				s.updatedat, s.updatedby, COALESCE(s.type, ''), s.options, s.metadata
			  FROM secrets s
			  JOIN accessgrants a ON a.secretid = s.id
			  WHERE a.groupid = $1
			  ORDER BY s.id ASC`
	rows, err := querier.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, storeErr(err, "failed to list series for group")
	}
	defer rows.Close()

	return collectSeries(rows)
}

// GroupsForSeries returns the groups holding a grant on a secret series.
func (p *PostgreSQLMembershipRepository) GroupsForSeries(
	ctx context.Context,
	seriesID int64,
) ([]*aclDomain.Group, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT g.id, g.name, COALESCE(g.description, ''), g.createdat, g.createdby,
				g.updatedat, g.updatedby, g.metadata
			  FROM groups g
			  JOIN accessgrants a ON a.groupid = g.id
			  WHERE a.secretid = $1
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
func (p *PostgreSQLMembershipRepository) SeriesForClient(
	ctx context.Context,
	clientID int64,
) ([]*secretsDomain.SecretSeries, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT s.id, s.name, COALESCE(s.description, ''), s.createdat, s.createdby,
				s.updatedat, s.updatedby, COALESCE(s.type, ''), s.options, s.metadata
			  FROM secrets s
			  JOIN accessgrants a ON a.secretid = s.id
			  JOIN memberships m ON m.groupid = a.groupid
			  WHERE m.clientid = $1
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
func (p *PostgreSQLMembershipRepository) ClientsForSeries(
	ctx context.Context,
	seriesID int64,
) ([]*aclDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT DISTINCT c.id, c.name, COALESCE(c.description, ''), c.createdat, c.createdby,
				c.updatedat, c.updatedby, c.automation
			  FROM clients c
			  JOIN memberships m ON m.clientid = c.id
			  JOIN accessgrants a ON a.groupid = m.groupid
			  WHERE a.secretid = $1
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
func (p *PostgreSQLMembershipRepository) MayAccess(
	ctx context.Context,
	clientID, seriesID int64,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
				SELECT 1
				FROM memberships m
				JOIN accessgrants a ON a.groupid = m.groupid
				WHERE m.clientid = $1 AND a.secretid = $2
			  )`

	var allowed bool
	if err := querier.QueryRowContext(ctx, query, clientID, seriesID).Scan(&allowed); err != nil {
		return false, storeErr(err, "failed to check access")
	}
	return allowed, nil
}

func collectSeries(rows *sql.Rows) ([]*secretsDomain.SecretSeries, error) {
	var result []*secretsDomain.SecretSeries
	for rows.Next() {
		var series secretsDomain.SecretSeries
		var options, metadata []byte

		err := rows.Scan(
			&series.ID,
			&series.Name,
			&series.Description,
			&series.CreatedAt,
			&series.CreatedBy,
			&series.UpdatedAt,
			&series.UpdatedBy,
			&series.Type,
			&options,
			&metadata,
		)
		if err != nil {
			return nil, storeErr(err, "failed to scan secret series")
		}

		if series.GenerationOptions, err = unmarshalJSONMap(options); err != nil {
			return nil, err
		}
		if series.Metadata, err = unmarshalJSONMap(metadata); err != nil {
			return nil, err
		}

		result = append(result, &series)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "failed to iterate secret series")
	}
	return result, nil
}
