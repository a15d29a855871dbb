package categories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelezeh/ecommapp-backend/pkg/config"
	"github.com/samuelezeh/ecommapp-backend/pkg/db"
	"github.com/samuelezeh/ecommapp-backend/pkg/db/models"
	pkgerrors "github.com/samuelezeh/ecommapp-backend/pkg/errors"
)

const testSchema = `
CREATE TABLE users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    is_staff INTEGER NOT NULL DEFAULT 0,
    is_superuser INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE products (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    price NUMERIC NOT NULL,
    quantity INTEGER NOT NULL DEFAULT 1,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE reviews (
    id TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    rating INTEGER NOT NULL DEFAULT 1,
    review TEXT,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL,
    UNIQUE (product_id, user_id)
);
CREATE TABLE wishlists (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE TABLE wishlist_items (
    id TEXT PRIMARY KEY,
    wishlist_id TEXT NOT NULL REFERENCES wishlists(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", t.Name(), time.Now().UnixNano())
	client, err := db.New(context.Background(), config.DBConfig{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, client.DB().Exec(testSchema).Error)
	return client
}

func newTestService(t *testing.T, deletePolicy string) (Service, *db.Client) {
	t.Helper()

	client := openTestDB(t)
	svc, err := NewService(ServiceParams{
		DB:      client,
		Catalog: config.CatalogConfig{CategoryDeletePolicy: deletePolicy},
	})
	require.NoError(t, err)
	return svc, client
}

func seedProduct(t *testing.T, client *db.Client, categoryID uuid.UUID) *models.Product {
	t.Helper()

	user := &models.User{Username: "seller_" + uuid.NewString()[:8], IsActive: true}
	require.NoError(t, client.DB().Create(user).Error)

	product := &models.Product{
		Name:       "widget",
		Quantity:   1,
		UserID:     user.ID,
		CategoryID: categoryID,
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func assertErrorCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newTestService(t, config.CategoryDeleteCascade)

	desc := "things with gears"
	category, err := svc.CreateCategory(context.Background(), CreateCategoryInput{
		Name:        "gadgets",
		Description: &desc,
	})
	require.NoError(t, err)
	assert.Equal(t, "gadgets", category.Name)
	require.NotNil(t, category.Description)
	assert.Equal(t, int64(0), category.TotalProducts)
	assert.NotEqual(t, uuid.Nil, category.ID)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	svc, _ := newTestService(t, config.CategoryDeleteCascade)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "  "})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestGetCategoryCountsProducts(t *testing.T) {
	svc, client := newTestService(t, config.CategoryDeleteCascade)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "gadgets"})
	require.NoError(t, err)
	seedProduct(t, client, created.ID)
	seedProduct(t, client, created.ID)

	got, err := svc.GetCategory(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.TotalProducts)
}

func TestGetCategoryNotFound(t *testing.T) {
	svc, _ := newTestService(t, config.CategoryDeleteCascade)

	_, err := svc.GetCategory(context.Background(), uuid.New())
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}

func TestListCategoriesWithCounts(t *testing.T) {
	svc, client := newTestService(t, config.CategoryDeleteCascade)
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "gadgets"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CreateCategoryInput{Name: "books"})
	require.NoError(t, err)
	seedProduct(t, client, first.ID)

	rows, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "gadgets", rows[0].Name)
	assert.Equal(t, int64(1), rows[0].TotalProducts)
	assert.Equal(t, int64(0), rows[1].TotalProducts)
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := newTestService(t, config.CategoryDeleteCascade)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "gadgets"})
	require.NoError(t, err)

	name := "gizmos"
	updated, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "gizmos", updated.Name)

	blank := ""
	_, err = svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{Name: &blank})
	assertErrorCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteCategoryCascadeRemovesProducts(t *testing.T) {
	svc, client := newTestService(t, config.CategoryDeleteCascade)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "gadgets"})
	require.NoError(t, err)
	product := seedProduct(t, client, created.ID)

	// The cascade is transitive: the product's reviews and wishlist
	// entries must disappear with it.
	review := &models.Review{ProductID: product.ID, UserID: product.UserID, Rating: 5}
	require.NoError(t, client.DB().Create(review).Error)
	wl := &models.Wishlist{UserID: product.UserID}
	require.NoError(t, client.DB().Create(wl).Error)
	item := &models.WishlistItem{WishlistID: wl.ID, ProductID: product.ID}
	require.NoError(t, client.DB().Create(item).Error)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	var count int64
	require.NoError(t, client.DB().Model(&models.Product{}).Where("id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, client.DB().Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, client.DB().Model(&models.WishlistItem{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteCategoryRestrictRefusesWhenInUse(t *testing.T) {
	svc, client := newTestService(t, config.CategoryDeleteRestrict)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{Name: "gadgets"})
	require.NoError(t, err)
	seedProduct(t, client, created.ID)

	err = svc.DeleteCategory(ctx, created.ID)
	assertErrorCode(t, err, pkgerrors.CodeConflict)

	// Still deletable once empty.
	require.NoError(t, client.DB().Where("category_id = ?", created.ID).Delete(&models.Product{}).Error)
	require.NoError(t, svc.DeleteCategory(ctx, created.ID))
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _ := newTestService(t, config.CategoryDeleteCascade)

	err := svc.DeleteCategory(context.Background(), uuid.New())
	assertErrorCode(t, err, pkgerrors.CodeNotFound)
}
