package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/arbor.space/internal/services/genealogy/domain/person"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/storage"
)

const personColumns = `id, tree_id, first_name, middle_name, last_name, maiden_name, suffix, nickname,
	gender, birth_date, death_date, is_living, is_public, photo_url, father_id, mother_id,
	created_at, updated_at`

// PutPerson upserts one person record.
func (s *Store) PutPerson(ctx context.Context, record person.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("person id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO people (`+personColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   first_name = excluded.first_name,
		   middle_name = excluded.middle_name,
		   last_name = excluded.last_name,
		   maiden_name = excluded.maiden_name,
		   suffix = excluded.suffix,
		   nickname = excluded.nickname,
		   gender = excluded.gender,
		   birth_date = excluded.birth_date,
		   death_date = excluded.death_date,
		   is_living = excluded.is_living,
		   is_public = excluded.is_public,
		   photo_url = excluded.photo_url,
		   father_id = excluded.father_id,
		   mother_id = excluded.mother_id,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.TreeID,
		record.FirstName,
		record.MiddleName,
		record.LastName,
		record.MaidenName,
		record.Suffix,
		record.Nickname,
		string(record.Gender),
		toNullMillis(record.BirthDate),
		toNullMillis(record.DeathDate),
		record.IsLiving,
		record.IsPublic,
		record.PhotoURL,
		toNullString(record.FatherID),
		toNullString(record.MotherID),
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put person: %w", err)
	}
	return nil
}

func scanPerson(row interface{ Scan(...any) error }) (person.Person, error) {
	var record person.Person
	var gender string
	var birthDate, deathDate sql.NullInt64
	var fatherID, motherID sql.NullString
	var createdAt, updatedAt int64
	err := row.Scan(
		&record.ID,
		&record.TreeID,
		&record.FirstName,
		&record.MiddleName,
		&record.LastName,
		&record.MaidenName,
		&record.Suffix,
		&record.Nickname,
		&gender,
		&birthDate,
		&deathDate,
		&record.IsLiving,
		&record.IsPublic,
		&record.PhotoURL,
		&fatherID,
		&motherID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return person.Person{}, err
	}
	record.Gender = person.Gender(gender)
	record.BirthDate = fromNullMillis(birthDate)
	record.DeathDate = fromNullMillis(deathDate)
	record.FatherID = fromNullString(fatherID)
	record.MotherID = fromNullString(motherID)
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// GetPerson returns one person by id.
func (s *Store) GetPerson(ctx context.Context, personID string) (person.Person, error) {
	if err := ctx.Err(); err != nil {
		return person.Person{}, err
	}
	if err := s.ensureDB(); err != nil {
		return person.Person{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ?`,
		personID,
	)
	record, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return person.Person{}, storage.ErrNotFound
		}
		return person.Person{}, fmt.Errorf("get person: %w", err)
	}
	return record, nil
}

// ListPeople returns the people of one tree in creation order.
func (s *Store) ListPeople(ctx context.Context, treeID string) ([]person.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+personColumns+` FROM people WHERE tree_id = ?
		 ORDER BY created_at, id`,
		treeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var people []person.Person
	for rows.Next() {
		record, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

// DeletePerson removes a person in one transaction: parent references
// pointing at them are cleared, then attached events, notes, and
// spouse rows cascade with the person row.
func (s *Store) DeletePerson(ctx context.Context, personID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE people SET father_id = NULL WHERE father_id = ?`, personID); err != nil {
		return fmt.Errorf("clear father references: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE people SET mother_id = NULL WHERE mother_id = ?`, personID); err != nil {
		return fmt.Errorf("clear mother references: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, personID)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

// PutEvent upserts one life event.
func (s *Store) PutEvent(ctx context.Context, record person.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("event id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO person_events (id, person_id, type, date, location, description, sources, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type = excluded.type,
		   date = excluded.date,
		   location = excluded.location,
		   description = excluded.description,
		   sources = excluded.sources,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.PersonID,
		string(record.Type),
		toNullMillis(record.Date),
		record.Location,
		record.Description,
		record.Sources,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// ListEvents returns the events of one person in creation order.
func (s *Store) ListEvents(ctx context.Context, personID string) ([]person.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, person_id, type, date, location, description, sources, created_at, updated_at
		 FROM person_events WHERE person_id = ?
		 ORDER BY created_at, id`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []person.Event
	for rows.Next() {
		var record person.Event
		var eventType string
		var date sql.NullInt64
		var createdAt, updatedAt int64
		err := rows.Scan(
			&record.ID,
			&record.PersonID,
			&eventType,
			&date,
			&record.Location,
			&record.Description,
			&record.Sources,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		record.Type = person.EventType(eventType)
		record.Date = fromNullMillis(date)
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		events = append(events, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// PutNote upserts one note.
func (s *Store) PutNote(ctx context.Context, record person.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("note id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO person_notes (id, person_id, content, is_private, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content = excluded.content,
		   is_private = excluded.is_private,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.PersonID,
		record.Content,
		record.IsPrivate,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put note: %w", err)
	}
	return nil
}

// ListNotes returns the notes of one person in creation order.
func (s *Store) ListNotes(ctx context.Context, personID string) ([]person.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, person_id, content, is_private, created_at, updated_at
		 FROM person_notes WHERE person_id = ?
		 ORDER BY created_at, id`,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var notes []person.Note
	for rows.Next() {
		var record person.Note
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.ID, &record.PersonID, &record.Content, &record.IsPrivate, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		notes = append(notes, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// PutSpouse upserts one spouse relation.
func (s *Store) PutSpouse(ctx context.Context, record person.Spouse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("spouse id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO person_spouses (id, person_id, spouse_id, marriage_date, marriage_location, divorce_date, is_current, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   marriage_date = excluded.marriage_date,
		   marriage_location = excluded.marriage_location,
		   divorce_date = excluded.divorce_date,
		   is_current = excluded.is_current,
		   updated_at = excluded.updated_at`,
		record.ID,
		record.PersonID,
		record.SpouseID,
		toNullMillis(record.MarriageDate),
		record.MarriageLocation,
		toNullMillis(record.DivorceDate),
		record.IsCurrent,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put spouse: %w", err)
	}
	return nil
}

func scanSpouses(rows *sql.Rows) ([]person.Spouse, error) {
	var relations []person.Spouse
	for rows.Next() {
		var record person.Spouse
		var marriageDate, divorceDate sql.NullInt64
		var createdAt, updatedAt int64
		err := rows.Scan(
			&record.ID,
			&record.PersonID,
			&record.SpouseID,
			&marriageDate,
			&record.MarriageLocation,
			&divorceDate,
			&record.IsCurrent,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan spouse: %w", err)
		}
		record.MarriageDate = fromNullMillis(marriageDate)
		record.DivorceDate = fromNullMillis(divorceDate)
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		relations = append(relations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spouses: %w", err)
	}
	return relations, nil
}

// ListSpouses returns relations naming the person on either side.
func (s *Store) ListSpouses(ctx context.Context, personID string) ([]person.Spouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, person_id, spouse_id, marriage_date, marriage_location, divorce_date, is_current, created_at, updated_at
		 FROM person_spouses WHERE person_id = ? OR spouse_id = ?
		 ORDER BY created_at, id`,
		personID,
		personID,
	)
	if err != nil {
		return nil, fmt.Errorf("list spouses: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSpouses(rows)
}

// ListSpousesByTree returns every relation between people of one tree.
func (s *Store) ListSpousesByTree(ctx context.Context, treeID string) ([]person.Spouse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT ps.id, ps.person_id, ps.spouse_id, ps.marriage_date, ps.marriage_location, ps.divorce_date, ps.is_current, ps.created_at, ps.updated_at
		 FROM person_spouses ps
		 JOIN people p ON p.id = ps.person_id
		 WHERE p.tree_id = ?
		 ORDER BY ps.created_at, ps.id`,
		treeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list spouses by tree: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanSpouses(rows)
}
