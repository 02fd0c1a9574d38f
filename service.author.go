package main

import (
	"context"

	"go.uber.org/zap"
)

type AuthorServiceProvider interface {
	GetAll(ctx context.Context) ([]Author, error)
	GetByID(ctx context.Context, id string) (Author, error)
	GetByName(ctx context.Context, name, surname string) (Author, error)
	Add(ctx context.Context, author Author) (Author, error)
	Update(ctx context.Context, id string, author Author) (Author, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type AuthorService struct {
	logger  *zap.Logger
	authors *Collection[Author]
	policy  *ResiliencePolicy
}

func NewAuthorService(logger *zap.Logger, authors *Collection[Author], policy *ResiliencePolicy) AuthorServiceProvider {
	return &AuthorService{
		logger:  logger,
		authors: authors,
		policy:  policy,
	}
}

func (as *AuthorService) GetAll(ctx context.Context) ([]Author, error) {
	authors, err := withPolicy(ctx, as.policy, AuthorsCollection, as.authors.FindAll, func() []Author { return []Author{} })
	return authors, translateError(err, "", "", "")
}

func (as *AuthorService) GetByID(ctx context.Context, id string) (Author, error) {
	author, err := withPolicy(ctx, as.policy, AuthorsCollection,
		func(ctx context.Context) (Author, error) { return as.authors.FindByID(ctx, id) },
		func() Author { return Author{ID: id, Name: "N/A", Surname: "N/A"} },
	)
	return author, translateError(err, "Author by provided ID not found", "", "")
}

func (as *AuthorService) GetByName(ctx context.Context, name, surname string) (Author, error) {
	author, err := withPolicy(ctx, as.policy, AuthorsCollection,
		func(ctx context.Context) (Author, error) {
			return as.authors.FindOne(ctx, Filter{"name": name, "surname": surname})
		},
		func() Author { return Author{ID: "N/A", Name: name, Surname: surname} },
	)
	return author, translateError(err, "No author found by provided name", "", "")
}

func (as *AuthorService) Add(ctx context.Context, author Author) (Author, error) {
	author.ID = ""
	saved, err := as.authors.Save(ctx, author)
	if err != nil {
		as.logger.Debug("service: failed to add author", zap.String("author", author.String()), zap.Error(err))
		return saved, translateError(err, "", "Can not add author because author already exists!", "")
	}
	return saved, nil
}

// Update renames the author. Submitting the stored name and surname is a no-op
// returning the stored record.
func (as *AuthorService) Update(ctx context.Context, id string, author Author) (Author, error) {
	current, err := as.authors.FindByID(ctx, id)
	if err != nil {
		return current, translateError(err, "Can not update author. Author by provided ID not found", "", "")
	}
	if author.Name == current.Name && author.Surname == current.Surname {
		return current, nil
	}

	current.Name = author.Name
	current.Surname = author.Surname
	saved, err := as.authors.Save(ctx, current)
	if err != nil {
		return saved, translateError(err, "", "Can not update author because author with same name already exists!", "")
	}
	return saved, nil
}

func (as *AuthorService) Delete(ctx context.Context, id string) error {
	err := as.authors.DeleteByID(ctx, id)
	return translateError(err,
		"There is no author with provided id",
		"",
		"You can not delete author because exists book with this author!",
	)
}

func (as *AuthorService) Count(ctx context.Context) (int, error) {
	n, err := as.authors.Count(ctx)
	return n, translateError(err, "", "", "")
}
