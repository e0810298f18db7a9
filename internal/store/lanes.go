package store

import (
	"database/sql"
	"errors"
	"fmt"

	"pomodo/internal/core"
)

func (s *Store) LaneByName(name string) (*core.Lane, error) {
	l := &core.Lane{}
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, created_at, updated_at FROM lanes WHERE name = ?`, name,
	).Scan(&l.ID, &l.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lane %q: %w", name, err)
	}
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return l, nil
}

func (s *Store) Lanes() ([]core.Lane, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM lanes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list lanes: %w", err)
	}
	defer rows.Close()

	var lanes []core.Lane
	for rows.Next() {
		var l core.Lane
		var createdAt, updatedAt string
		if err := rows.Scan(&l.ID, &l.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		l.CreatedAt = parseTime(createdAt)
		l.UpdatedAt = parseTime(updatedAt)
		lanes = append(lanes, l)
	}
	return lanes, rows.Err()
}

func (s *Store) PriorityByName(name string) (*core.Priority, error) {
	p := &core.Priority{}
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT id, name, created_at, updated_at FROM priorities WHERE name = ?`, name,
	).Scan(&p.ID, &p.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get priority %q: %w", name, err)
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func (s *Store) Priorities() ([]core.Priority, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at, updated_at FROM priorities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list priorities: %w", err)
	}
	defer rows.Close()

	var priorities []core.Priority
	for rows.Next() {
		var p core.Priority
		var createdAt, updatedAt string
		if err := rows.Scan(&p.ID, &p.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = parseTime(createdAt)
		p.UpdatedAt = parseTime(updatedAt)
		priorities = append(priorities, p)
	}
	return priorities, rows.Err()
}
