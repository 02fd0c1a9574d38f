package main

import (
	"context"

	"go.uber.org/zap"
)

type GenreServiceProvider interface {
	GetAll(ctx context.Context) ([]Genre, error)
	GetByID(ctx context.Context, id string) (Genre, error)
	GetByName(ctx context.Context, name string) (Genre, error)
	Add(ctx context.Context, genre Genre) (Genre, error)
	Update(ctx context.Context, id string, genre Genre) (Genre, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type GenreService struct {
	logger *zap.Logger
	genres *Collection[Genre]
	policy *ResiliencePolicy
}

func NewGenreService(logger *zap.Logger, genres *Collection[Genre], policy *ResiliencePolicy) GenreServiceProvider {
	return &GenreService{
		logger: logger,
		genres: genres,
		policy: policy,
	}
}

func (gs *GenreService) GetAll(ctx context.Context) ([]Genre, error) {
	genres, err := withPolicy(ctx, gs.policy, GenresCollection, gs.genres.FindAll, func() []Genre { return []Genre{} })
	return genres, translateError(err, "", "", "")
}

func (gs *GenreService) GetByID(ctx context.Context, id string) (Genre, error) {
	genre, err := withPolicy(ctx, gs.policy, GenresCollection,
		func(ctx context.Context) (Genre, error) { return gs.genres.FindByID(ctx, id) },
		func() Genre { return Genre{ID: id, Name: "N/A"} },
	)
	return genre, translateError(err, "No genre found by provided id", "", "")
}

func (gs *GenreService) GetByName(ctx context.Context, name string) (Genre, error) {
	genre, err := withPolicy(ctx, gs.policy, GenresCollection,
		func(ctx context.Context) (Genre, error) { return gs.genres.FindOne(ctx, Filter{"name": name}) },
		func() Genre { return Genre{ID: "N/A", Name: name} },
	)
	return genre, translateError(err, "No genre found by provided name", "", "")
}

func (gs *GenreService) Add(ctx context.Context, genre Genre) (Genre, error) {
	genre.ID = ""
	saved, err := gs.genres.Save(ctx, genre)
	if err != nil {
		gs.logger.Debug("service: failed to add genre", zap.String("genre", genre.String()), zap.Error(err))
		return saved, translateError(err, "", "Can not add genre because genre already exists!", "")
	}
	return saved, nil
}

// Update renames the genre. Submitting the stored name is a no-op.
func (gs *GenreService) Update(ctx context.Context, id string, genre Genre) (Genre, error) {
	current, err := gs.genres.FindByID(ctx, id)
	if err != nil {
		return current, translateError(err, "Can not update genre. Genre by provided ID not found", "", "")
	}
	if genre.Name == current.Name {
		return current, nil
	}

	current.Name = genre.Name
	saved, err := gs.genres.Save(ctx, current)
	if err != nil {
		return saved, translateError(err, "", "Can not update genre because genre with same name already exists!", "")
	}
	return saved, nil
}

func (gs *GenreService) Delete(ctx context.Context, id string) error {
	err := gs.genres.DeleteByID(ctx, id)
	return translateError(err,
		"There is no genre with provided id",
		"",
		"You can not delete genre because exists book with this genre!",
	)
}

func (gs *GenreService) Count(ctx context.Context) (int, error) {
	n, err := gs.genres.Count(ctx)
	return n, translateError(err, "", "", "")
}
