// Package store defines the storage interface and implementations.
package store

import (
	"context"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// Store defines the interface for data persistence. Get operations return
// (nil, nil) when the record does not exist.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Problem operations
	CreateProblem(ctx context.Context, problem *domain.Problem) error
	GetProblem(ctx context.Context, problemID string) (*domain.Problem, error)
	ListProblems(ctx context.Context, filter domain.ProblemFilter) ([]domain.Problem, error)
	UpdateProblem(ctx context.Context, problem *domain.Problem) error
	DeleteProblem(ctx context.Context, problemID string) error

	// Solution operations
	CreateSolution(ctx context.Context, solution *domain.Solution) error
	GetSolution(ctx context.Context, solutionID string) (*domain.Solution, error)
	ListSolutions(ctx context.Context, filter domain.SolutionFilter) ([]domain.Solution, error)
	UpdateSolution(ctx context.Context, solution *domain.Solution) error
	DeleteSolution(ctx context.Context, solutionID string) error

	// Comment operations
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, commentID string) (*domain.Comment, error)
	ListComments(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error

	// Vote operations
	UpsertVote(ctx context.Context, vote *domain.Vote) error
	DeleteVote(ctx context.Context, solutionID, userID string) error
	GetVote(ctx context.Context, solutionID, userID string) (*domain.Vote, error)
	SummarizeVotes(ctx context.Context, solutionID string) (*domain.VoteSummary, error)

	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID, problemID, userID string) (*domain.Session, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error)
	DeleteMessage(ctx context.Context, messageID string) error

	// Fragment operations
	CreateFragment(ctx context.Context, fragment *domain.Fragment) error
	GetFragment(ctx context.Context, fragmentID string) (*domain.Fragment, error)
	ListFragments(ctx context.Context, sessionID string, kind domain.FragmentKind) ([]domain.Fragment, error)
	UpdateFragment(ctx context.Context, fragment *domain.Fragment) error
	DeleteFragment(ctx context.Context, fragmentID string) error

	// Lifecycle
	Close() error
}
