package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			avatar_url TEXT,
			bio TEXT,
			is_admin INTEGER NOT NULL DEFAULT 0,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS problems (
			problem_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			detailed_description TEXT,
			category TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			constraints TEXT,
			source_url TEXT,
			source_platform TEXT,
			created_by TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_problems_category ON problems(category, created_at)`,
		`CREATE TABLE IF NOT EXISTS solutions (
			solution_id TEXT PRIMARY KEY,
			problem_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			is_public INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (problem_id) REFERENCES problems(problem_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_solutions_problem ON solutions(problem_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_solutions_user ON solutions(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS comments (
			comment_id TEXT PRIMARY KEY,
			solution_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			parent_id TEXT,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (solution_id) REFERENCES solutions(solution_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_solution ON comments(solution_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS votes (
			vote_id TEXT PRIMARY KEY,
			solution_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			value INTEGER NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (solution_id, user_id),
			FOREIGN KEY (solution_id) REFERENCES solutions(solution_id)
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			problem_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		// No foreign keys here: fragments outlive the message that
		// produced them, and a workspace may start with a note before
		// its session row exists (the first chat turn creates it).
		`CREATE TABLE IF NOT EXISTS fragments (
			fragment_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT,
			body TEXT NOT NULL,
			source_message_id TEXT,
			state TEXT,
			payload TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fragments_session ON fragments(session_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser creates a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, display_name, avatar_url, bio, is_admin, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.UserID, user.Email, user.DisplayName, user.AvatarURL, user.Bio, user.IsAdmin, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var avatarURL, bio sql.NullString
	err := row.Scan(&user.UserID, &user.Email, &user.DisplayName, &avatarURL, &bio, &user.IsAdmin, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.AvatarURL = avatarURL.String
	user.Bio = bio.String
	return &user, nil
}

const userColumns = `user_id, email, display_name, avatar_url, bio, is_admin, password_hash, created_at, updated_at`

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// UpdateUser updates a user's mutable profile fields.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, avatar_url = ?, bio = ?, updated_at = ? WHERE user_id = ?`,
		user.DisplayName, user.AvatarURL, user.Bio, time.Now(), user.UserID)
	return err
}

// CreateProblem creates a new problem.
func (s *SQLiteStore) CreateProblem(ctx context.Context, problem *domain.Problem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO problems (problem_id, title, description, detailed_description, category, difficulty, constraints, source_url, source_platform, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		problem.ProblemID, problem.Title, problem.Description, problem.DetailedDescription, problem.Category, problem.Difficulty,
		problem.Constraints, problem.SourceURL, problem.SourcePlatform, problem.CreatedBy, problem.CreatedAt, problem.UpdatedAt)
	return err
}

const problemColumns = `problem_id, title, description, detailed_description, category, difficulty, constraints, source_url, source_platform, created_by, created_at, updated_at`

func scanProblem(scan func(dest ...interface{}) error) (*domain.Problem, error) {
	var p domain.Problem
	var detailed, constraints, sourceURL, sourcePlatform, createdBy sql.NullString
	err := scan(&p.ProblemID, &p.Title, &p.Description, &detailed, &p.Category, &p.Difficulty,
		&constraints, &sourceURL, &sourcePlatform, &createdBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.DetailedDescription = detailed.String
	p.Constraints = constraints.String
	p.SourceURL = sourceURL.String
	p.SourcePlatform = sourcePlatform.String
	p.CreatedBy = createdBy.String
	return &p, nil
}

// GetProblem retrieves a problem by ID.
func (s *SQLiteStore) GetProblem(ctx context.Context, problemID string) (*domain.Problem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+problemColumns+` FROM problems WHERE problem_id = ?`, problemID)
	p, err := scanProblem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProblems lists problems, newest first, with optional filters.
func (s *SQLiteStore) ListProblems(ctx context.Context, filter domain.ProblemFilter) ([]domain.Problem, error) {
	query := `SELECT ` + problemColumns + ` FROM problems WHERE 1=1`
	var args []interface{}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Difficulty > 0 {
		query += ` AND difficulty = ?`
		args = append(args, filter.Difficulty)
	}
	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []domain.Problem
	for rows.Next() {
		p, err := scanProblem(rows.Scan)
		if err != nil {
			return nil, err
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

// UpdateProblem updates a problem's editable fields.
func (s *SQLiteStore) UpdateProblem(ctx context.Context, problem *domain.Problem) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE problems SET title = ?, description = ?, detailed_description = ?, category = ?, difficulty = ?, constraints = ?, source_url = ?, source_platform = ?, updated_at = ?
		 WHERE problem_id = ?`,
		problem.Title, problem.Description, problem.DetailedDescription, problem.Category, problem.Difficulty,
		problem.Constraints, problem.SourceURL, problem.SourcePlatform, time.Now(), problem.ProblemID)
	return err
}

// DeleteProblem deletes a problem. Sessions and fragments are untouched.
func (s *SQLiteStore) DeleteProblem(ctx context.Context, problemID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM problems WHERE problem_id = ?`, problemID)
	return err
}

// CreateSolution creates a new solution.
func (s *SQLiteStore) CreateSolution(ctx context.Context, solution *domain.Solution) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO solutions (solution_id, problem_id, user_id, title, content, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		solution.SolutionID, solution.ProblemID, solution.UserID, solution.Title, solution.Content, solution.IsPublic,
		solution.CreatedAt, solution.UpdatedAt)
	return err
}

// GetSolution retrieves a solution by ID.
func (s *SQLiteStore) GetSolution(ctx context.Context, solutionID string) (*domain.Solution, error) {
	var sol domain.Solution
	err := s.db.QueryRowContext(ctx,
		`SELECT solution_id, problem_id, user_id, title, content, is_public, created_at, updated_at FROM solutions WHERE solution_id = ?`,
		solutionID).Scan(&sol.SolutionID, &sol.ProblemID, &sol.UserID, &sol.Title, &sol.Content, &sol.IsPublic, &sol.CreatedAt, &sol.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sol, nil
}

// ListSolutions lists solutions, newest first. Non-public solutions are
// only included when the requester owns them.
func (s *SQLiteStore) ListSolutions(ctx context.Context, filter domain.SolutionFilter) ([]domain.Solution, error) {
	query := `SELECT solution_id, problem_id, user_id, title, content, is_public, created_at, updated_at FROM solutions WHERE 1=1`
	var args []interface{}
	if filter.ProblemID != "" {
		query += ` AND problem_id = ?`
		args = append(args, filter.ProblemID)
	}
	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.RequesterID != "" {
		query += ` AND (is_public = 1 OR user_id = ?)`
		args = append(args, filter.RequesterID)
	} else {
		query += ` AND is_public = 1`
	}
	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solutions []domain.Solution
	for rows.Next() {
		var sol domain.Solution
		if err := rows.Scan(&sol.SolutionID, &sol.ProblemID, &sol.UserID, &sol.Title, &sol.Content, &sol.IsPublic, &sol.CreatedAt, &sol.UpdatedAt); err != nil {
			return nil, err
		}
		solutions = append(solutions, sol)
	}
	return solutions, rows.Err()
}

// UpdateSolution updates a solution's editable fields.
func (s *SQLiteStore) UpdateSolution(ctx context.Context, solution *domain.Solution) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE solutions SET title = ?, content = ?, is_public = ?, updated_at = ? WHERE solution_id = ?`,
		solution.Title, solution.Content, solution.IsPublic, time.Now(), solution.SolutionID)
	return err
}

// DeleteSolution deletes a solution and its votes and comments.
func (s *SQLiteStore) DeleteSolution(ctx context.Context, solutionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM votes WHERE solution_id = ?`, solutionID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE solution_id = ?`, solutionID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM solutions WHERE solution_id = ?`, solutionID)
	return err
}

// CreateComment creates a new comment.
func (s *SQLiteStore) CreateComment(ctx context.Context, comment *domain.Comment) error {
	var parentID sql.NullString
	if comment.ParentID != "" {
		parentID = sql.NullString{String: comment.ParentID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (comment_id, solution_id, user_id, parent_id, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		comment.CommentID, comment.SolutionID, comment.UserID, parentID, comment.Content, comment.CreatedAt)
	return err
}

// GetComment retrieves a comment by ID.
func (s *SQLiteStore) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	var c domain.Comment
	var parentID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT comment_id, solution_id, user_id, parent_id, content, created_at FROM comments WHERE comment_id = ?`,
		commentID).Scan(&c.CommentID, &c.SolutionID, &c.UserID, &parentID, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.ParentID = parentID.String
	return &c, nil
}

// ListComments lists comments, oldest first. With no parent filter only
// top-level comments are returned.
func (s *SQLiteStore) ListComments(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	query := `SELECT comment_id, solution_id, user_id, parent_id, content, created_at FROM comments WHERE 1=1`
	var args []interface{}
	if filter.SolutionID != "" {
		query += ` AND solution_id = ?`
		args = append(args, filter.SolutionID)
	}
	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.ParentID != "" {
		query += ` AND parent_id = ?`
		args = append(args, filter.ParentID)
	} else if filter.TopLevel {
		query += ` AND parent_id IS NULL`
	}
	query += ` ORDER BY created_at ASC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var parentID sql.NullString
		if err := rows.Scan(&c.CommentID, &c.SolutionID, &c.UserID, &parentID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ParentID = parentID.String
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment deletes a comment.
func (s *SQLiteStore) DeleteComment(ctx context.Context, commentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE comment_id = ?`, commentID)
	return err
}

// UpsertVote inserts or replaces the caller's vote on a solution.
func (s *SQLiteStore) UpsertVote(ctx context.Context, vote *domain.Vote) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO votes (vote_id, solution_id, user_id, value, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (solution_id, user_id) DO UPDATE SET value = excluded.value`,
		vote.VoteID, vote.SolutionID, vote.UserID, vote.Value, vote.CreatedAt)
	return err
}

// DeleteVote removes the caller's vote on a solution.
func (s *SQLiteStore) DeleteVote(ctx context.Context, solutionID, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM votes WHERE solution_id = ? AND user_id = ?`, solutionID, userID)
	return err
}

// GetVote retrieves a single vote.
func (s *SQLiteStore) GetVote(ctx context.Context, solutionID, userID string) (*domain.Vote, error) {
	var v domain.Vote
	err := s.db.QueryRowContext(ctx,
		`SELECT vote_id, solution_id, user_id, value, created_at FROM votes WHERE solution_id = ? AND user_id = ?`,
		solutionID, userID).Scan(&v.VoteID, &v.SolutionID, &v.UserID, &v.Value, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SummarizeVotes aggregates votes for a solution.
func (s *SQLiteStore) SummarizeVotes(ctx context.Context, solutionID string) (*domain.VoteSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM votes WHERE solution_id = ?`, solutionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary := &domain.VoteSummary{}
	for rows.Next() {
		var value int
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		if value > 0 {
			summary.Upvotes++
		} else if value < 0 {
			summary.Downvotes++
		}
		summary.Total += value
		summary.Count++
	}
	return summary, rows.Err()
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, problem_id, user_id, created_at) VALUES (?, ?, ?, ?)`,
		session.SessionID, session.ProblemID, session.UserID, session.CreatedAt)
	return err
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, problem_id, user_id, created_at FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.ProblemID, &session.UserID, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetOrCreateSession gets an existing session or creates a new one.
func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID, problemID, userID string) (*domain.Session, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &domain.Session{
		SessionID: sessionID,
		ProblemID: problemID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, message.Role, message.Content, message.CreatedAt)
	return err
}

// GetMessages retrieves messages for a session, oldest first.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error) {
	query := `SELECT message_id, session_id, role, content, created_at FROM messages WHERE session_id = ?`
	args := []interface{}{sessionID}

	if before != "" {
		query += ` AND message_id < ?`
		args = append(args, before)
	}

	query += ` ORDER BY created_at ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteMessage deletes a message. Fragments derived from it are untouched.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE message_id = ?`, messageID)
	return err
}

// CreateFragment creates a new fragment.
func (s *SQLiteStore) CreateFragment(ctx context.Context, fragment *domain.Fragment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fragments (fragment_id, session_id, kind, title, body, source_message_id, state, payload, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fragment.FragmentID, fragment.SessionID, fragment.Kind, fragment.Title, fragment.Body,
		fragment.SourceMessageID, fragment.State, fragment.Payload, fragment.CreatedAt, fragment.UpdatedAt)
	return err
}

const fragmentColumns = `fragment_id, session_id, kind, title, body, source_message_id, state, payload, created_at, updated_at`

func scanFragment(scan func(dest ...interface{}) error) (*domain.Fragment, error) {
	var f domain.Fragment
	var title, sourceMessageID, state, payload sql.NullString
	err := scan(&f.FragmentID, &f.SessionID, &f.Kind, &title, &f.Body, &sourceMessageID, &state, &payload, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.Title = title.String
	f.SourceMessageID = sourceMessageID.String
	f.State = domain.MaterializationState(state.String)
	f.Payload = payload.String
	return &f, nil
}

// GetFragment retrieves a fragment by ID.
func (s *SQLiteStore) GetFragment(ctx context.Context, fragmentID string) (*domain.Fragment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fragmentColumns+` FROM fragments WHERE fragment_id = ?`, fragmentID)
	f, err := scanFragment(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFragments retrieves fragments for a session in insertion order,
// optionally filtered by kind.
func (s *SQLiteStore) ListFragments(ctx context.Context, sessionID string, kind domain.FragmentKind) ([]domain.Fragment, error) {
	query := `SELECT ` + fragmentColumns + ` FROM fragments WHERE session_id = ?`
	args := []interface{}{sessionID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, kind)
	}
	// rowid is monotonic per insert; created_at is not unique enough,
	// every fragment from one extraction pass shares a timestamp.
	query += ` ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fragments []domain.Fragment
	for rows.Next() {
		f, err := scanFragment(rows.Scan)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, *f)
	}
	return fragments, rows.Err()
}

// UpdateFragment rewrites a fragment's mutable fields. Kind and
// source_message_id are fixed at creation and never updated.
func (s *SQLiteStore) UpdateFragment(ctx context.Context, fragment *domain.Fragment) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE fragments SET title = ?, body = ?, state = ?, payload = ?, updated_at = ? WHERE fragment_id = ?`,
		fragment.Title, fragment.Body, fragment.State, fragment.Payload, time.Now(), fragment.FragmentID)
	return err
}

// DeleteFragment deletes a fragment.
func (s *SQLiteStore) DeleteFragment(ctx context.Context, fragmentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM fragments WHERE fragment_id = ?`, fragmentID)
	return err
}
