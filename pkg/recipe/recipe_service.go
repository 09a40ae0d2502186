package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/document"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, req domain.UpdateRecipeRequest, recipeID, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID string) error
		GetRecipeByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error)
		GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error)
		ResolveShortLink(ctx context.Context, code string) (string, error)

		AddToFavorites(ctx context.Context, userID, recipeID string) (domain.RecipeMinifiedResponse, error)
		RemoveFromFavorites(ctx context.Context, userID, recipeID string) error
		AddToShoppingCart(ctx context.Context, userID, recipeID string) (domain.RecipeMinifiedResponse, error)
		RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error
		DownloadShoppingCart(ctx context.Context, userID string) ([]byte, error)
	}

	recipeService struct {
		recipeRepository     RecipeRepository
		tagRepository        tag.TagRepository
		ingredientRepository ingredient.IngredientRepository
		userRepository       user.UserRepository
		s3                   storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	tagRepository tag.TagRepository,
	ingredientRepository ingredient.IngredientRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:     recipeRepository,
		tagRepository:        tagRepository,
		ingredientRepository: ingredientRepository,
		userRepository:       userRepository,
		s3:                   s3,
	}
}

// validateComposition resolves tag and ingredient references, rejecting
// empty lists, duplicates, unknown ids, and out-of-range amounts before
// anything touches the database.
func (s *recipeService) validateComposition(
	ctx context.Context,
	cookingTime int,
	tagIDs []string,
	ingredients []domain.RecipeIngredientRequest,
) ([]*entities.Tag, []*entities.Ingredient, error) {
	if cookingTime < domain.MinCookingTime || cookingTime > domain.MaxCookingTime {
		return nil, nil, domain.ErrCookingTimeOutOfRange
	}

	if len(tagIDs) == 0 {
		return nil, nil, domain.ErrTagsRequired
	}
	seenTags := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seenTags[id] {
			return nil, nil, domain.ErrDuplicateTag
		}
		seenTags[id] = true
	}
	tags, err := s.tagRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, domain.ErrTagNotExists
	}

	if len(ingredients) == 0 {
		return nil, nil, domain.ErrIngredientsRequired
	}
	ingredientIDs := make([]string, 0, len(ingredients))
	seenIngredients := make(map[string]bool, len(ingredients))
	for _, item := range ingredients {
		if seenIngredients[item.ID] {
			return nil, nil, domain.ErrDuplicateIngredient
		}
		seenIngredients[item.ID] = true
		if item.Amount < domain.MinIngredientAmount || item.Amount > domain.MaxIngredientAmount {
			return nil, nil, domain.ErrAmountOutOfRange
		}
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	resolved, err := s.ingredientRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(resolved) != len(ingredientIDs) {
		return nil, nil, domain.ErrIngredientNotExists
	}

	return tags, resolved, nil
}

// uploadImage stores the recipe image on S3 and returns its public link.
// The image arrives either as a multipart file or as an inline data URI.
func (s *recipeService) uploadImage(image string, file *multipart.FileHeader, recipeID uuid.UUID) (string, error) {
	if file != nil {
		key, err := s.s3.UploadFile(recipeID.String(), file, "recipes/images", storage.AllowImage...)
		if err != nil {
			if errors.Is(err, storage.ErrFileTypeNotAllowed) {
				return "", domain.ErrInvalidImagePayload
			}
			return "", err
		}
		return s.s3.GetPublicLinkKey(key), nil
	}

	raw, ext, err := utils.DecodeImageDataURI(image)
	if err != nil {
		return "", domain.ErrInvalidImagePayload
	}

	link, err := s.s3.UploadBytes(recipeID.String(), raw, ext, "recipes/images")
	if err != nil {
		return "", err
	}
	return s.s3.GetPublicLinkKey(link), nil
}

func buildRecipeIngredients(recipeID uuid.UUID, reqs []domain.RecipeIngredientRequest) ([]*entities.RecipeIngredient, error) {
	rows := make([]*entities.RecipeIngredient, 0, len(reqs))
	for _, item := range reqs {
		ingredientID, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, domain.ErrParseUUID
		}
		rows = append(rows, &entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ingredientID,
			Amount:       item.Amount,
		})
	}
	return rows, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID string) (domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	tags, _, err := s.validateComposition(ctx, req.CookingTime, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Image == "" && req.ImageFile == nil {
		return domain.RecipeResponse{}, domain.ErrImageRequired
	}

	recipeID := uuid.New()
	imageURL, err := s.uploadImage(req.Image, req.ImageFile, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    authorUUID,
		Name:        req.Name,
		ImageURL:    imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	rows, err := buildRecipeIngredients(recipeID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tags, rows); err != nil {
		return domain.RecipeResponse{}, err
	}

	// Respond with the stored aggregate so the client sees the same
	// projection reads produce.
	return s.GetRecipeByID(ctx, recipeID.String(), authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, req domain.UpdateRecipeRequest, recipeID, userID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if recipe.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	tags, _, err := s.validateComposition(ctx, req.CookingTime, req.Tags, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if req.Image != "" || req.ImageFile != nil {
		if key := s.s3.GetObjectKeyFromLink(recipe.ImageURL); key != "" {
			_ = s.s3.DeleteFile(key)
		}
		imageURL, err := s.uploadImage(req.Image, req.ImageFile, recipe.ID)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		recipe.ImageURL = imageURL
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	rows, err := buildRecipeIngredients(recipe.ID, req.Ingredients)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, tags, rows); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeByID(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.AuthorID.String() != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if key := s.s3.GetObjectKeyFromLink(recipe.ImageURL); key != "" {
		_ = s.s3.DeleteFile(key)
	}

	return s.recipeRepository.DeleteRecipe(ctx, recipeID)
}

func (s *recipeService) GetRecipeByID(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return s.toRecipeResponse(ctx, recipe, viewerID)
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string) ([]domain.RecipeResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 6
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		item, err := s.toRecipeResponse(ctx, recipe, viewerID)
		if err != nil {
			return nil, 0, err
		}
		response = append(response, item)
	}

	return response, count, nil
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID string) (domain.ShortLinkResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ShortLinkResponse{}, domain.ErrRecipeNotFound
		}
		return domain.ShortLinkResponse{}, err
	}

	appURL := strings.TrimRight(utils.GetConfig("APP_URL"), "/")
	return domain.ShortLinkResponse{
		ShortLink: fmt.Sprintf("%s/s/%s", appURL, recipe.ShortLink),
	}, nil
}

// ResolveShortLink returns the canonical recipe URL for a short code.
func (s *recipeService) ResolveShortLink(ctx context.Context, code string) (string, error) {
	recipe, err := s.recipeRepository.GetRecipeByShortLink(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecipeNotFound
		}
		return "", err
	}

	appURL := strings.TrimRight(utils.GetConfig("APP_URL"), "/")
	return fmt.Sprintf("%s/recipes/%s", appURL, recipe.ID.String()), nil
}

func (s *recipeService) AddToFavorites(ctx context.Context, userID, recipeID string) (domain.RecipeMinifiedResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeMinifiedResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeMinifiedResponse{}, err
	}

	if err := s.recipeRepository.AddToFavorites(ctx, userID, recipeID); err != nil {
		return domain.RecipeMinifiedResponse{}, err
	}

	return ToRecipeMinifiedResponse(recipe), nil
}

func (s *recipeService) RemoveFromFavorites(ctx context.Context, userID, recipeID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return s.recipeRepository.RemoveFromFavorites(ctx, userID, recipeID)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, userID, recipeID string) (domain.RecipeMinifiedResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeMinifiedResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeMinifiedResponse{}, err
	}

	if err := s.recipeRepository.AddToShoppingCart(ctx, userID, recipeID); err != nil {
		return domain.RecipeMinifiedResponse{}, err
	}

	return ToRecipeMinifiedResponse(recipe), nil
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, userID, recipeID string) error {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}
	return s.recipeRepository.RemoveFromShoppingCart(ctx, userID, recipeID)
}

func (s *recipeService) DownloadShoppingCart(ctx context.Context, userID string) ([]byte, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return document.RenderShoppingList(items, owner.Username)
}

func (s *recipeService) toRecipeResponse(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	response := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]domain.RecipeIngredientResponse, 0, len(recipe.RecipeIngredients)),
	}

	for _, t := range recipe.Tags {
		response.Tags = append(response.Tags, domain.TagResponse{
			ID:   t.ID.String(),
			Name: t.Name,
			Slug: t.Slug,
		})
	}

	for _, row := range recipe.RecipeIngredients {
		item := domain.RecipeIngredientResponse{
			ID:     row.IngredientID.String(),
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		response.Ingredients = append(response.Ingredients, item)
	}

	if recipe.Author != nil {
		isSubscribed := false
		if viewerID != "" && viewerID != recipe.AuthorID.String() {
			subscribed, err := s.userRepository.IsSubscribed(ctx, viewerID, recipe.AuthorID.String())
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			isSubscribed = subscribed
		}
		response.Author = user.ToUserResponse(recipe.Author, isSubscribed)
	}

	if viewerID != "" {
		favorited, err := s.recipeRepository.IsFavorited(ctx, viewerID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		inCart, err := s.recipeRepository.IsInShoppingCart(ctx, viewerID, recipe.ID.String())
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		response.IsFavorited = favorited
		response.IsInShoppingCart = inCart
	}

	return response, nil
}

func ToRecipeMinifiedResponse(recipe *entities.Recipe) domain.RecipeMinifiedResponse {
	return domain.RecipeMinifiedResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
