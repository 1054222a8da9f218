package store

import (
	"context"

	"fangemeinschaft/internal/apperr"
	"fangemeinschaft/internal/auth"
	"fangemeinschaft/internal/domain"
	"fangemeinschaft/internal/pipeline"
)

// UserInput carries the editable user fields. An empty Password on update
// keeps the current hash.
type UserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// UserStore manages admin accounts
type UserStore struct {
	*Repository[domain.User]
}

// Register creates a user with a hashed password; role defaults to editor.
// An email held by a deleted account is rejected with a pointer to that
// account, which can be restored instead.
func (s *UserStore) Register(ctx context.Context, in UserInput) (*domain.User, error) {
	if in.Password == "" {
		return nil, apperr.Validation("Invalid user", apperr.Issue{Path: "password", Message: "Password is required"})
	}
	role, err := userRole(in.Role)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:     auth.NormalizeEmail(in.Email),
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
	}
	op := &pipeline.Operation{Model: s.cfg.model, Action: pipeline.Create, Args: user}
	_, err = s.mutate(ctx, op, func(ctx context.Context, _ *pipeline.Operation) (any, error) {
		if err := s.checkDeletedEmail(ctx, user.Email, ""); err != nil {
			return nil, err
		}
		if err := s.conn(ctx).Create(user).Error; err != nil {
			return nil, dbError(s.cfg.model, "create", err)
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Edit updates a user's profile and, when given, their password
func (s *UserStore) Edit(ctx context.Context, id string, in UserInput) (*domain.User, error) {
	email := auth.NormalizeEmail(in.Email)
	if err := s.checkDeletedEmail(ctx, email, id); err != nil {
		return nil, err
	}
	changes := map[string]any{
		"email":      email,
		"first_name": in.FirstName,
		"last_name":  in.LastName,
	}
	if in.Role != "" {
		role, err := userRole(in.Role)
		if err != nil {
			return nil, err
		}
		changes["role"] = role
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
	}
	return s.Update(ctx, id, changes)
}

// checkDeletedEmail fails when a soft-deleted user other than exceptID still
// owns email, since the unique index covers deleted rows too
func (s *UserStore) checkDeletedEmail(ctx context.Context, email, exceptID string) error {
	var ids []string
	q := s.conn(ctx).Model(&domain.User{}).Where("email = ? AND deleted = ?", email, true)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Limit(1).Pluck("id", &ids).Error; err != nil {
		return dbError(s.cfg.model, "find deleted", err)
	}
	if len(ids) > 0 {
		return apperr.Validation("Invalid user", apperr.Issue{
			Path:    "email",
			Message: "Email belongs to deleted user " + ids[0] + ", restore that user instead",
		})
	}
	return nil
}

func userRole(role string) (string, error) {
	switch role {
	case "":
		return domain.RoleEditor, nil
	case domain.RoleAdmin, domain.RoleEditor:
		return role, nil
	}
	return "", apperr.Validation("Invalid user", apperr.Issue{Path: "role", Message: "Role must be admin or editor"})
}
