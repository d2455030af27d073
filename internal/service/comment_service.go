package service

import (
	"context"
	"strings"

	"atelier/internal/models"
	"atelier/internal/observability"
	"atelier/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
}

// CreateCommentInput carries one comment submission. Authenticated is set
// by the handler from the session; Nickname and Password only apply to
// anonymous submissions.
type CreateCommentInput struct {
	PostID        uint
	ParentID      *uint
	Content       string
	Nickname      string
	Password      string
	Authenticated bool
	UserID        uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
	}
}

// ListThreads returns a post's comments grouped into root comments with
// their direct replies, both levels ordered oldest first.
func (s *CommentService) ListThreads(ctx context.Context, postID uint) ([]*models.CommentThread, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, false); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return models.BuildThreads(comments), nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const maxContentLen = 5000
	const maxNicknameLen = 30

	if _, err := s.postRepo.GetByID(ctx, in.PostID, false); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		Parent:  in.ParentID,
		Content: content,
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to another post")
		}
		// Threads are one level deep: replying to a reply is not allowed.
		if !parent.IsRoot() {
			return nil, models.NewValidationError("Replies to replies are not allowed")
		}
	}

	if in.Authenticated {
		comment.IsAdmin = true
		comment.Nickname = s.ownerNickname(ctx)
	} else {
		nickname := strings.TrimSpace(in.Nickname)
		if nickname == "" {
			return nil, models.NewValidationError("Nickname is required")
		}
		if len(nickname) > maxNicknameLen {
			return nil, models.NewValidationError("Nickname too long (max 30 characters)")
		}
		if in.Password == "" {
			return nil, models.NewValidationError("Password is required")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		comment.Nickname = nickname
		comment.Password = string(hashed)
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	kind := "root"
	if comment.Parent != nil {
		kind = "reply"
	}
	author := "anonymous"
	if comment.IsAdmin {
		author = "admin"
	}
	observability.CommentsCreated.WithLabelValues(kind, author).Inc()
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment (admin surface). Deleting a root comment
// also drops its replies from every rendered thread.
func (s *CommentService) DeleteComment(ctx context.Context, id uint) error {
	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}

// ownerNickname resolves the display name for authenticated comments from
// the site owner's profile, with a fixed fallback when no profile exists.
func (s *CommentService) ownerNickname(ctx context.Context) string {
	profile, err := s.profileRepo.GetOwner(ctx)
	if err != nil || profile == nil || profile.Username == "" {
		return "Admin"
	}
	return profile.Username
}
