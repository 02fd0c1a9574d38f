package main

import (
	"context"

	"go.uber.org/zap"
)

type CommentServiceProvider interface {
	GetAll(ctx context.Context) ([]Comment, error)
	GetByID(ctx context.Context, id string) (Comment, error)
	GetByBookID(ctx context.Context, bookID string) ([]Comment, error)
	Add(ctx context.Context, content, bookID string) (Comment, error)
	UpdateContent(ctx context.Context, id, content string) (Comment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type CommentService struct {
	logger   *zap.Logger
	comments *Collection[Comment]
	books    *Collection[Book]
}

func NewCommentService(logger *zap.Logger, cs *Collections) CommentServiceProvider {
	return &CommentService{
		logger:   logger,
		comments: cs.Comments,
		books:    cs.Books,
	}
}

func (cms *CommentService) GetAll(ctx context.Context) ([]Comment, error) {
	comments, err := cms.comments.FindAll(ctx)
	return comments, translateError(err, "", "", "")
}

func (cms *CommentService) GetByID(ctx context.Context, id string) (Comment, error) {
	comment, err := cms.comments.FindByID(ctx, id)
	return comment, translateError(err, "Comment by provided ID not found", "", "")
}

func (cms *CommentService) GetByBookID(ctx context.Context, bookID string) ([]Comment, error) {
	comments, err := cms.comments.FindByField(ctx, "bookId", bookID)
	return comments, translateError(err, "", "", "")
}

func (cms *CommentService) Add(ctx context.Context, content, bookID string) (Comment, error) {
	if _, err := cms.books.FindByID(ctx, bookID); err != nil {
		return Comment{}, translateError(err, "Can not add new Comment. Book by provided id is not found!", "", "")
	}
	saved, err := cms.comments.Save(ctx, Comment{Content: content, BookID: bookID})
	if err != nil {
		cms.logger.Debug("service: failed to add comment", zap.String("book.id", bookID), zap.Error(err))
	}
	return saved, translateError(err, "", "", "")
}

func (cms *CommentService) UpdateContent(ctx context.Context, id, content string) (Comment, error) {
	current, err := cms.comments.FindByID(ctx, id)
	if err != nil {
		return current, translateError(err, "Can not update comment. Comment by provided ID not found", "", "")
	}
	current.Content = content
	saved, err := cms.comments.Save(ctx, current)
	return saved, translateError(err, "", "", "")
}

func (cms *CommentService) Delete(ctx context.Context, id string) error {
	err := cms.comments.DeleteByID(ctx, id)
	return translateError(err, "There is no comment with provided id", "", "")
}

func (cms *CommentService) Count(ctx context.Context) (int, error) {
	n, err := cms.comments.Count(ctx)
	return n, translateError(err, "", "", "")
}
