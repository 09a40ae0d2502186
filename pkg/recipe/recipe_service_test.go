package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

/* ==================== STUBS ==================== */

func gormNotFound() error { return gorm.ErrRecordNotFound }

type stubRecipeRepo struct {
	RecipeRepository

	recipes     map[string]*entities.Recipe
	authors     map[string]*entities.User
	ingredients map[string]*entities.Ingredient
	created     *entities.Recipe
}

func newStubRecipeRepo() *stubRecipeRepo {
	return &stubRecipeRepo{
		recipes:     map[string]*entities.Recipe{},
		authors:     map[string]*entities.User{},
		ingredients: map[string]*entities.Ingredient{},
	}
}

func (s *stubRecipeRepo) CreateRecipe(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag, rows []*entities.RecipeIngredient) error {
	recipe.ShortLink = "abc123"
	recipe.Tags = tags
	recipe.RecipeIngredients = rows
	s.created = recipe
	s.recipes[recipe.ID.String()] = recipe
	return nil
}

func (s *stubRecipeRepo) UpdateRecipe(_ context.Context, recipe *entities.Recipe, tags []*entities.Tag, rows []*entities.RecipeIngredient) error {
	recipe.Tags = tags
	recipe.RecipeIngredients = rows
	s.recipes[recipe.ID.String()] = recipe
	return nil
}

func (s *stubRecipeRepo) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	recipe, ok := s.recipes[id]
	if !ok {
		return nil, gormNotFound()
	}
	if recipe.Author == nil {
		recipe.Author = s.authors[recipe.AuthorID.String()]
	}
	for _, row := range recipe.RecipeIngredients {
		if row.Ingredient == nil {
			row.Ingredient = s.ingredients[row.IngredientID.String()]
		}
	}
	return recipe, nil
}

func (s *stubRecipeRepo) GetRecipeByShortLink(_ context.Context, code string) (*entities.Recipe, error) {
	for _, recipe := range s.recipes {
		if recipe.ShortLink == code {
			return recipe, nil
		}
	}
	return nil, gormNotFound()
}

func (s *stubRecipeRepo) DeleteRecipe(_ context.Context, id string) error {
	delete(s.recipes, id)
	return nil
}

func (s *stubRecipeRepo) IsFavorited(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s *stubRecipeRepo) IsInShoppingCart(context.Context, string, string) (bool, error) {
	return false, nil
}

type stubTagRepo struct {
	tags map[string]*entities.Tag
}

func (s *stubTagRepo) GetTags(context.Context) ([]*entities.Tag, error) { return nil, nil }

func (s *stubTagRepo) GetTagByID(_ context.Context, id string) (*entities.Tag, error) {
	tag, ok := s.tags[id]
	if !ok {
		return nil, gormNotFound()
	}
	return tag, nil
}

func (s *stubTagRepo) GetTagsByIDs(_ context.Context, ids []string) ([]*entities.Tag, error) {
	var found []*entities.Tag
	for _, id := range ids {
		if tag, ok := s.tags[id]; ok {
			found = append(found, tag)
		}
	}
	return found, nil
}

type stubIngredientRepo struct {
	ingredients map[string]*entities.Ingredient
}

func (s *stubIngredientRepo) GetIngredients(context.Context, string) ([]*entities.Ingredient, error) {
	return nil, nil
}

func (s *stubIngredientRepo) GetIngredientByID(_ context.Context, id string) (*entities.Ingredient, error) {
	ing, ok := s.ingredients[id]
	if !ok {
		return nil, gormNotFound()
	}
	return ing, nil
}

func (s *stubIngredientRepo) GetIngredientsByIDs(_ context.Context, ids []string) ([]*entities.Ingredient, error) {
	var found []*entities.Ingredient
	for _, id := range ids {
		if ing, ok := s.ingredients[id]; ok {
			found = append(found, ing)
		}
	}
	return found, nil
}

func (s *stubIngredientRepo) BulkCreateIngredients(context.Context, []*entities.Ingredient) error {
	return nil
}

type stubUserRepo struct {
	users map[string]*entities.User
}

func (s *stubUserRepo) CreateUser(context.Context, *entities.User) error { return nil }

func (s *stubUserRepo) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gormNotFound()
	}
	return user, nil
}

func (s *stubUserRepo) GetUserByEmail(context.Context, string) (*entities.User, error) {
	return nil, gormNotFound()
}

func (s *stubUserRepo) GetUserByUsername(context.Context, string) (*entities.User, error) {
	return nil, gormNotFound()
}

func (s *stubUserRepo) GetUsers(context.Context, int, int) ([]*entities.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) UpdateUser(context.Context, *entities.User) error { return nil }

func (s *stubUserRepo) IsSubscribed(context.Context, string, string) (bool, error) {
	return false, nil
}

type stubS3 struct{}

func (stubS3) UploadFile(fileName string, file *multipart.FileHeader, dir string, allowedTypes ...string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, allowed := range allowedTypes {
		if ext == allowed {
			return dir + "/" + fileName + ext, nil
		}
	}
	return "", storage.ErrFileTypeNotAllowed
}

func (stubS3) UploadBytes(fileName string, _ []byte, ext string, dir string) (string, error) {
	return dir + "/" + fileName + "." + ext, nil
}

func (stubS3) DeleteFile(string) error { return nil }

func (stubS3) GetPublicLinkKey(objectKey string) string {
	return "https://bucket.s3.test.amazonaws.com/" + objectKey
}

func (stubS3) GetObjectKeyFromLink(link string) string { return link }

/* ==================== FIXTURES ==================== */

const pngDataURI = "data:image/png;base64,aW1hZ2UtYnl0ZXM="

type serviceFixture struct {
	service     RecipeService
	recipeRepo  *stubRecipeRepo
	author      *entities.User
	tag         *entities.Tag
	ingredient  *entities.Ingredient
	baseRequest domain.CreateRecipeRequest
}

func newServiceFixture() *serviceFixture {
	author := &entities.User{ID: uuid.New(), Username: "chef", Email: "chef@example.com"}
	tag := &entities.Tag{ID: uuid.New(), Name: "Dinner", Slug: "dinner"}
	ing := &entities.Ingredient{ID: uuid.New(), Name: "flour", MeasurementUnit: "g"}

	recipeRepo := newStubRecipeRepo()
	recipeRepo.authors[author.ID.String()] = author
	recipeRepo.ingredients[ing.ID.String()] = ing
	service := NewRecipeService(
		recipeRepo,
		&stubTagRepo{tags: map[string]*entities.Tag{tag.ID.String(): tag}},
		&stubIngredientRepo{ingredients: map[string]*entities.Ingredient{ing.ID.String(): ing}},
		&stubUserRepo{users: map[string]*entities.User{author.ID.String(): author}},
		stubS3{},
	)

	return &serviceFixture{
		service:    service,
		recipeRepo: recipeRepo,
		author:     author,
		tag:        tag,
		ingredient: ing,
		baseRequest: domain.CreateRecipeRequest{
			Name:        "bread",
			Image:       pngDataURI,
			Text:        "bake it",
			CookingTime: 45,
			Tags:        []string{tag.ID.String()},
			Ingredients: []domain.RecipeIngredientRequest{{ID: ing.ID.String(), Amount: 500}},
		},
	}
}

/* ==================== TESTS ==================== */

func TestCreateRecipeSuccess(t *testing.T) {
	f := newServiceFixture()

	res, err := f.service.CreateRecipe(context.Background(), f.baseRequest, f.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "bread", res.Name)
	assert.Equal(t, 45, res.CookingTime)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "dinner", res.Tags[0].Slug)
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "flour", res.Ingredients[0].Name)
	assert.Equal(t, 500, res.Ingredients[0].Amount)
	assert.Equal(t, "chef", res.Author.Username)
	assert.Contains(t, f.recipeRepo.created.ImageURL, "recipes/images/")
}

func TestCreateRecipeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *domain.CreateRecipeRequest, f *serviceFixture)
		wantErr error
	}{
		{
			name:    "no ingredients",
			mutate:  func(req *domain.CreateRecipeRequest, _ *serviceFixture) { req.Ingredients = nil },
			wantErr: domain.ErrIngredientsRequired,
		},
		{
			name: "duplicate ingredient",
			mutate: func(req *domain.CreateRecipeRequest, _ *serviceFixture) {
				req.Ingredients = append(req.Ingredients, req.Ingredients[0])
			},
			wantErr: domain.ErrDuplicateIngredient,
		},
		{
			name: "unknown ingredient",
			mutate: func(req *domain.CreateRecipeRequest, _ *serviceFixture) {
				req.Ingredients = []domain.RecipeIngredientRequest{{ID: uuid.NewString(), Amount: 10}}
			},
			wantErr: domain.ErrIngredientNotExists,
		},
		{
			name: "amount too large",
			mutate: func(req *domain.CreateRecipeRequest, _ *serviceFixture) {
				req.Ingredients[0].Amount = domain.MaxIngredientAmount + 1
			},
			wantErr: domain.ErrAmountOutOfRange,
		},
		{
			name:    "no tags",
			mutate:  func(req *domain.CreateRecipeRequest, _ *serviceFixture) { req.Tags = nil },
			wantErr: domain.ErrTagsRequired,
		},
		{
			name: "duplicate tag",
			mutate: func(req *domain.CreateRecipeRequest, f *serviceFixture) {
				req.Tags = []string{f.tag.ID.String(), f.tag.ID.String()}
			},
			wantErr: domain.ErrDuplicateTag,
		},
		{
			name: "unknown tag",
			mutate: func(req *domain.CreateRecipeRequest, _ *serviceFixture) {
				req.Tags = []string{uuid.NewString()}
			},
			wantErr: domain.ErrTagNotExists,
		},
		{
			name:    "cooking time zero",
			mutate:  func(req *domain.CreateRecipeRequest, _ *serviceFixture) { req.CookingTime = 0 },
			wantErr: domain.ErrCookingTimeOutOfRange,
		},
		{
			name:    "missing image",
			mutate:  func(req *domain.CreateRecipeRequest, _ *serviceFixture) { req.Image = "" },
			wantErr: domain.ErrImageRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newServiceFixture()
			req := f.baseRequest
			req.Ingredients = append([]domain.RecipeIngredientRequest(nil), req.Ingredients...)
			req.Tags = append([]string(nil), req.Tags...)
			tc.mutate(&req, f)

			_, err := f.service.CreateRecipe(context.Background(), req, f.author.ID.String())
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestUpdateRecipeOwnership(t *testing.T) {
	f := newServiceFixture()

	created, err := f.service.CreateRecipe(context.Background(), f.baseRequest, f.author.ID.String())
	require.NoError(t, err)

	updateReq := domain.UpdateRecipeRequest{
		Name:        "better bread",
		Text:        "bake it longer",
		CookingTime: 60,
		Tags:        []string{f.tag.ID.String()},
		Ingredients: []domain.RecipeIngredientRequest{{ID: f.ingredient.ID.String(), Amount: 600}},
	}

	_, err = f.service.UpdateRecipe(context.Background(), updateReq, created.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	updated, err := f.service.UpdateRecipe(context.Background(), updateReq, created.ID, f.author.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "better bread", updated.Name)
	assert.Equal(t, 60, updated.CookingTime)
}

func TestDeleteRecipeOwnership(t *testing.T) {
	f := newServiceFixture()

	created, err := f.service.CreateRecipe(context.Background(), f.baseRequest, f.author.ID.String())
	require.NoError(t, err)

	err = f.service.DeleteRecipe(context.Background(), created.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	err = f.service.DeleteRecipe(context.Background(), uuid.NewString(), f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetShortLink(t *testing.T) {
	f := newServiceFixture()

	created, err := f.service.CreateRecipe(context.Background(), f.baseRequest, f.author.ID.String())
	require.NoError(t, err)

	res, err := f.service.GetShortLink(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Contains(t, res.ShortLink, "/s/abc123")

	_, err = f.service.GetShortLink(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestResolveShortLinkUnknownCode(t *testing.T) {
	f := newServiceFixture()

	_, err := f.service.ResolveShortLink(context.Background(), "zzzzzz")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestCreateRecipeRejectsBrokenImagePayload(t *testing.T) {
	f := newServiceFixture()
	req := f.baseRequest
	req.Image = "data:image/png;base64,%%%not-base64%%%"

	_, err := f.service.CreateRecipe(context.Background(), req, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}

func TestCreateRecipeMultipartImage(t *testing.T) {
	f := newServiceFixture()
	req := f.baseRequest
	req.Image = ""
	req.ImageFile = &multipart.FileHeader{Filename: "bread.png"}

	_, err := f.service.CreateRecipe(context.Background(), req, f.author.ID.String())
	require.NoError(t, err)
	assert.Contains(t, f.recipeRepo.created.ImageURL, "recipes/images/")
	assert.Contains(t, f.recipeRepo.created.ImageURL, ".png")
}

func TestCreateRecipeMultipartImageBadExtension(t *testing.T) {
	f := newServiceFixture()
	req := f.baseRequest
	req.Image = ""
	req.ImageFile = &multipart.FileHeader{Filename: "bread.exe"}

	_, err := f.service.CreateRecipe(context.Background(), req, f.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidImagePayload)
}
