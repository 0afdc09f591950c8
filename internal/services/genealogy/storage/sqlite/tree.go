package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/tree"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

const treeColumns = `id, owner_id, name, description, is_public, hide_living, share_token, language, created_at, updated_at`

// PutTree upserts one tree record.
func (s *Store) PutTree(ctx context.Context, record tree.Tree) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("tree id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO trees (`+treeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   is_public = excluded.is_public,
		   hide_living = excluded.hide_living,
		   share_token = excluded.share_token,
		   language = excluded.language,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.OwnerID,
		record.Name,
		record.Description,
		record.IsPublic,
		record.HideLiving,
		toNullString(record.ShareToken),
		record.Language,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put tree: %w", err)
	}
	return nil
}

func scanTree(row interface{ Scan(...any) error }) (tree.Tree, error) {
	var record tree.Tree
	var shareToken sql.NullString
	var createdAt int64
	var updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.OwnerID,
		&record.Name,
		&record.Description,
		&record.IsPublic,
		&record.HideLiving,
		&shareToken,
		&record.Language,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return tree.Tree{}, err
	}
	record.ShareToken = fromNullString(shareToken)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// GetTree returns one tree by id.
func (s *Store) GetTree(ctx context.Context, treeID string) (tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return tree.Tree{}, err
	}
	if err := s.ensureDB(); err != nil {
		return tree.Tree{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+treeColumns+` FROM trees WHERE id = ?`,
		treeID,
	)
	record, err := scanTree(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tree.Tree{}, storage.ErrNotFound
		}
		return tree.Tree{}, fmt.Errorf("get tree: %w", err)
	}
	return record, nil
}

// GetTreeByShareToken returns the tree holding the given share token.
func (s *Store) GetTreeByShareToken(ctx context.Context, token string) (tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return tree.Tree{}, err
	}
	if err := s.ensureDB(); err != nil {
		return tree.Tree{}, err
	}
	if strings.TrimSpace(token) == "" {
		return tree.Tree{}, storage.ErrNotFound
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+treeColumns+` FROM trees WHERE share_token = ?`,
		token,
	)
	record, err := scanTree(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tree.Tree{}, storage.ErrNotFound
		}
		return tree.Tree{}, fmt.Errorf("get tree by share token: %w", err)
	}
	return record, nil
}

// ListTreesByOwner returns the owner's trees with person counts,
// newest first.
func (s *Store) ListTreesByOwner(ctx context.Context, ownerID string) ([]storage.TreeSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT t.id, t.owner_id, t.name, t.description, t.is_public, t.hide_living,
		        t.share_token, t.language, t.created_at, t.updated_at,
		        (SELECT COUNT(*) FROM people p WHERE p.tree_id = t.id)
		 FROM trees t
		 WHERE t.owner_id = ?
		 ORDER BY t.created_at DESC, t.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []storage.TreeSummary
	for rows.Next() {
		var record tree.Tree
		var shareToken sql.NullString
		var createdAt, updatedAt int64
		var count int
		err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&record.Name,
			&record.Description,
			&record.IsPublic,
			&record.HideLiving,
			&shareToken,
			&record.Language,
			&createdAt,
			&updatedAt,
			&count,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		record.ShareToken = fromNullString(shareToken)
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		summaries = append(summaries, storage.TreeSummary{Tree: record, PersonCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	return summaries, nil
}

// DeleteTree removes a tree. People, grants, and attached records go
// with it through foreign key cascades.
func (s *Store) DeleteTree(ctx context.Context, treeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM trees WHERE id = ?`, treeID)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// PutAccess inserts one access grant. A second grant for the same
// tree and email reports ErrDuplicateGrant.
func (s *Store) PutAccess(ctx context.Context, grant tree.Access) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(grant.ID) == "" {
		return fmt.Errorf("grant id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tree_access (id, tree_id, email, level, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		grant.ID,
		grant.TreeID,
		tree.NormalizeEmail(grant.Email),
		string(grant.Level),
		toMillis(grant.CreatedAt),
		toMillis(grant.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return storage.ErrDuplicateGrant
		}
		return fmt.Errorf("put access grant: %w", err)
	}
	return nil
}

// GetAccess returns one access grant by id.
func (s *Store) GetAccess(ctx context.Context, grantID string) (tree.Access, error) {
	if err := ctx.Err(); err != nil {
		return tree.Access{}, err
	}
	if err := s.ensureDB(); err != nil {
		return tree.Access{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, tree_id, email, level, created_at, updated_at
		 FROM tree_access WHERE id = ?`,
		grantID,
	)
	var grant tree.Access
	var level string
	var createdAt, updatedAt int64
	err := row.Scan(&grant.ID, &grant.TreeID, &grant.Email, &level, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tree.Access{}, storage.ErrNotFound
		}
		return tree.Access{}, fmt.Errorf("get access grant: %w", err)
	}
	grant.Level = tree.AccessLevel(level)
	grant.CreatedAt = fromMillis(createdAt)
	grant.UpdatedAt = fromMillis(updatedAt)
	return grant, nil
}

// ListAccess returns the grants of one tree in creation order.
func (s *Store) ListAccess(ctx context.Context, treeID string) ([]tree.Access, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, tree_id, email, level, created_at, updated_at
		 FROM tree_access WHERE tree_id = ?
		 ORDER BY created_at, id`,
		treeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var grants []tree.Access
	for rows.Next() {
		var grant tree.Access
		var level string
		var createdAt, updatedAt int64
		if err := rows.Scan(&grant.ID, &grant.TreeID, &grant.Email, &level, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan access grant: %w", err)
		}
		grant.Level = tree.AccessLevel(level)
		grant.CreatedAt = fromMillis(createdAt)
		grant.UpdatedAt = fromMillis(updatedAt)
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	return grants, nil
}

// DeleteAccess removes one access grant by id.
func (s *Store) DeleteAccess(ctx context.Context, grantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM tree_access WHERE id = ?`, grantID)
	if err != nil {
		return fmt.Errorf("delete access grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete access grant: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
