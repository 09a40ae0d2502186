package subscription

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/user"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error)
		Unsubscribe(ctx context.Context, userID, authorID string) error
		GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error)
	}

	subscriptionService struct {
		subscriptionRepository SubscriptionRepository
		userRepository         user.UserRepository
		recipeRepository       recipe.RecipeRepository
	}
)

func NewSubscriptionService(
	subscriptionRepository SubscriptionRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subscriptionRepository: subscriptionRepository,
		userRepository:         userRepository,
		recipeRepository:       recipeRepository,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID string, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	if userID == authorID {
		return domain.UserWithRecipesResponse{}, domain.ErrSelfSubscription
	}

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserWithRecipesResponse{}, domain.ErrUserNotFound
		}
		return domain.UserWithRecipesResponse{}, err
	}

	if err := s.subscriptionRepository.CreateSubscription(ctx, userID, authorID); err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	return s.toUserWithRecipes(ctx, author, recipesLimit)
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.subscriptionRepository.DeleteSubscription(ctx, userID, authorID)
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, userID string, page, limit, recipesLimit int) ([]domain.UserWithRecipesResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 6
	}

	authors, count, err := s.subscriptionRepository.GetSubscribedAuthors(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.UserWithRecipesResponse, 0, len(authors))
	for _, author := range authors {
		item, err := s.toUserWithRecipes(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		response = append(response, item)
	}

	return response, count, nil
}

// toUserWithRecipes renders the enriched author card shown on the
// subscriptions screen: profile plus a trimmed recipe preview.
func (s *subscriptionService) toUserWithRecipes(ctx context.Context, author *entities.User, recipesLimit int) (domain.UserWithRecipesResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, author.ID.String(), recipesLimit)
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	total, err := s.recipeRepository.CountRecipesByAuthor(ctx, author.ID.String())
	if err != nil {
		return domain.UserWithRecipesResponse{}, err
	}

	preview := make([]domain.RecipeMinifiedResponse, 0, len(recipes))
	for _, item := range recipes {
		preview = append(preview, recipe.ToRecipeMinifiedResponse(item))
	}

	return domain.UserWithRecipesResponse{
		UserResponse: user.ToUserResponse(author, true),
		Recipes:      preview,
		RecipesCount: total,
	}, nil
}
