package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hackdash/internal/models"
)

type MemberRepository struct {
	db *DB
}

func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(teamID, name, email, githubURL, requirementLink, role string, isLeader bool) (*models.TeamMember, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := r.db.Exec(
		`INSERT INTO team_members (id, team_id, name, email, github_url, requirement_link, is_leader, member_role, member_approval, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, teamID, name, email, githubURL, requirementLink, isLeader, role, models.MemberPending, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating team member: %w", err)
	}

	return &models.TeamMember{
		ID:              id,
		TeamID:          teamID,
		Name:            name,
		Email:           email,
		GithubURL:       githubURL,
		RequirementLink: requirementLink,
		IsLeader:        isLeader,
		MemberRole:      role,
		MemberApproval:  models.MemberPending,
		CreatedAt:       now,
	}, nil
}

func (r *MemberRepository) FindByID(id string) (*models.TeamMember, error) {
	return r.findOne(`SELECT id, team_id, name, email, github_url, requirement_link, is_leader, member_role, member_approval, created_at, updated_at FROM team_members WHERE id = ?`, id)
}

// FindLeader returns the member flagged as leader, falling back to the
// earliest member row when no leader flag is set.
func (r *MemberRepository) FindLeader(teamID string) (*models.TeamMember, error) {
	return r.findOne(
		`SELECT id, team_id, name, email, github_url, requirement_link, is_leader, member_role, member_approval, created_at, updated_at
         FROM team_members WHERE team_id = ? ORDER BY is_leader DESC, created_at ASC LIMIT 1`,
		teamID,
	)
}

func (r *MemberRepository) FindByTeamID(teamID string) ([]*models.TeamMember, error) {
	rows, err := r.db.Query(
		`SELECT id, team_id, name, email, github_url, requirement_link, is_leader, member_role, member_approval, created_at, updated_at
         FROM team_members WHERE team_id = ? ORDER BY is_leader DESC, created_at ASC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

func (r *MemberRepository) FindAll() ([]*models.TeamMember, error) {
	rows, err := r.db.Query(
		`SELECT id, team_id, name, email, github_url, requirement_link, is_leader, member_role, member_approval, created_at, updated_at
         FROM team_members ORDER BY team_id, is_leader DESC, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying team members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

func (r *MemberRepository) UpdateApproval(id string, approval models.MemberApproval) (*models.TeamMember, error) {
	result, err := r.db.Exec(
		`UPDATE team_members SET member_approval = ?, updated_at = ? WHERE id = ?`,
		approval, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating member approval: %w", err)
	}
	if err := checkRowsAffected(result); err != nil {
		return nil, err
	}

	return r.FindByID(id)
}

func (r *MemberRepository) findOne(query string, args ...any) (*models.TeamMember, error) {
	m, err := scanMember(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying team member: %w", err)
	}

	return m, nil
}

func scanMember(row rowScanner) (*models.TeamMember, error) {
	var m models.TeamMember
	var updatedAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.TeamID,
		&m.Name,
		&m.Email,
		&m.GithubURL,
		&m.RequirementLink,
		&m.IsLeader,
		&m.MemberRole,
		&m.MemberApproval,
		&m.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.UpdatedAt = nullTimeToPtr(updatedAt)

	return &m, nil
}

func scanMembers(rows *sql.Rows) ([]*models.TeamMember, error) {
	var members []*models.TeamMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning team member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
