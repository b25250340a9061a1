package rest

import (
	"context"
	"fmt"
	"net/http"

	"finances/internal/core"
	"finances/internal/store"
)

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var rows []categoryJSON
	if err := c.do(ctx, "rest.ListCategories", http.MethodGet, "/categories", nil, &rows); err != nil {
		return nil, err
	}
	return categoriesToCore(rows), nil
}

func (c *Client) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var row categoryJSON
	if err := c.do(ctx, "rest.GetCategory", http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, &row); err != nil {
		return core.Category{}, err
	}
	return row.toCore(), nil
}

func (c *Client) CreateCategory(ctx context.Context, draft core.CategoryDraft) (core.Category, error) {
	const op = "rest.CreateCategory"
	if err := draft.Validate(); err != nil {
		return core.Category{}, store.Invalid(op, err)
	}
	var row categoryJSON
	if err := c.do(ctx, op, http.MethodPost, "/categories", createCategoryJSON{CategoryName: draft.Name}, &row); err != nil {
		return core.Category{}, err
	}
	return row.toCore(), nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, category core.Category) (core.Category, error) {
	body := categoryJSON{CategoryID: id, CategoryName: category.Name}
	var row categoryJSON
	if err := c.do(ctx, "rest.UpdateCategory", http.MethodPut, fmt.Sprintf("/categories/%d", id), body, &row); err != nil {
		return core.Category{}, err
	}
	return row.toCore(), nil
}

// DeleteCategory deletes a category. Whether a category still referenced
// by transactions may be deleted is the store's policy; its verdict is
// surfaced as-is.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, "rest.DeleteCategory", http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
