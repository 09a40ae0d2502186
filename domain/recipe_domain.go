package domain

import (
	"errors"
	"mime/multipart"
)

const (
	MinCookingTime      = 1
	MaxCookingTime      = 32000
	MinIngredientAmount = 1
	MaxIngredientAmount = 32000
	ShortLinkLength     = 6
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessGetShortLink    = "success get short link"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessAddShoppingCart = "recipe added to shopping cart"
	MessageSuccessRemoveShopping  = "recipe removed from shopping cart"
	MessageSuccessGetShoppingList = "success get shopping list"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedGetShortLink    = "failed to get short link"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart = "failed to add recipe to shopping cart"
	MessageFailedRemoveShopping  = "failed to remove recipe from shopping cart"
	MessageFailedGetShoppingList = "failed to get shopping list"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrShortLinkExhausted       = errors.New("failed to generate unique short link")

	ErrAlreadyFavorited      = errors.New("recipe already added to favorites")
	ErrNotInFavorites        = errors.New("recipe was not added to favorites")
	ErrAlreadyInShoppingCart = errors.New("recipe already added to shopping cart")
	ErrNotInShoppingCart     = errors.New("recipe was not added to shopping cart")

	ErrIngredientsRequired   = &FieldError{Field: "ingredients", Message: "at least one ingredient is required"}
	ErrDuplicateIngredient   = &FieldError{Field: "ingredients", Message: "ingredients must not repeat"}
	ErrIngredientNotExists   = &FieldError{Field: "ingredients", Message: "ingredient does not exist"}
	ErrAmountOutOfRange      = &FieldError{Field: "ingredients", Message: "amount must be between 1 and 32000"}
	ErrTagsRequired          = &FieldError{Field: "tags", Message: "at least one tag is required"}
	ErrDuplicateTag          = &FieldError{Field: "tags", Message: "tags must not repeat"}
	ErrTagNotExists          = &FieldError{Field: "tags", Message: "tag does not exist"}
	ErrCookingTimeOutOfRange = &FieldError{Field: "cooking_time", Message: "cooking time must be between 1 and 32000"}
	ErrImageRequired         = &FieldError{Field: "image", Message: "image is required"}
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1,max=32000"`
	}

	// CreateRecipeRequest carries the image either as an inline data URI
	// (JSON body) or as a multipart file attached by the handler.
	CreateRecipeRequest struct {
		Name        string                    `json:"name" form:"name" validate:"required,max=256"`
		Image       string                    `json:"image" form:"-"`
		ImageFile   *multipart.FileHeader     `json:"-" form:"-"`
		Text        string                    `json:"text" form:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" form:"cooking_time" validate:"required"`
		Tags        []string                  `json:"tags" form:"tags"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" form:"-" validate:"dive"`
	}

	UpdateRecipeRequest struct {
		Name        string                    `json:"name" form:"name" validate:"required,max=256"`
		Image       string                    `json:"image,omitempty" form:"-"`
		ImageFile   *multipart.FileHeader     `json:"-" form:"-"`
		Text        string                    `json:"text" form:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" form:"cooking_time" validate:"required"`
		Tags        []string                  `json:"tags" form:"tags"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" form:"-" validate:"dive"`
	}

	RecipeIngredientResponse struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	RecipeResponse struct {
		ID               string                     `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
	}

	RecipeMinifiedResponse struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShortLinkResponse struct {
		ShortLink string `json:"short-link"`
	}

	RecipeFilter struct {
		AuthorID         string
		TagSlugs         []string
		IsFavorited      bool
		IsInShoppingCart bool
		Page             int
		Limit            int
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		TotalAmount     int    `json:"total_amount"`
	}
)
