package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type GroupService struct {
	groups repository.GroupRepository
}

type CreateGroupInput struct {
	Title       string
	Slug        string
	Description string
}

func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	fields := map[string]string{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		fields["title"] = msgRequired
	case utf8.RuneCountInString(title) > 200:
		fields["title"] = "Ensure this value has at most 200 characters."
	}
	slug := strings.TrimSpace(in.Slug)
	if err := validation.ValidateSlug(slug); err != nil {
		fields["slug"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, models.NewFieldsValidationError(fields)
	}

	group := &models.Group{Title: title, Slug: slug, Description: strings.TrimSpace(in.Description)}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return groups, nil
}

func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return s.groups.GetBySlug(ctx, slug)
}

// DeleteGroup removes the group; its posts survive without a group.
func (s *GroupService) DeleteGroup(ctx context.Context, slug string) error {
	return s.groups.Delete(ctx, slug)
}
