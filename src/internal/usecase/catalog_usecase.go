package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"shop-service/src/internal/model"
	"shop-service/src/internal/repository"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

// CatalogUseCase owns product administration. Catalog mutation never touches
// existing orders: each order carries its own price snapshot.
type CatalogUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	ProductRepository *repository.ProductRepository
}

func NewCatalogUseCase(
	logger log.Log,
	validate *validator.Validate,
	productRepository *repository.ProductRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		Log:               logger,
		Validate:          validate,
		ProductRepository: productRepository,
	}
}

func (c *CatalogUseCase) List(ctx context.Context) utils.Result {
	var result utils.Result

	products, err := c.ProductRepository.List(ctx)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("catalog-usecase", fmt.Sprintf("list products: %v", err), "List", "")
		return result
	}

	responses := make([]model.ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, model.ProductResponse{
			ID:           p.ID,
			Name:         p.Name,
			PricePerGram: p.PricePerGram,
		})
	}
	result.Data = responses
	return result
}

func (c *CatalogUseCase) Add(ctx context.Context, request *model.AddProductRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	id, err := c.ProductRepository.Insert(ctx, request.Name, request.PricePerGram)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("catalog-usecase", fmt.Sprintf("insert product: %v", err), "Add", request.Name)
		return result
	}

	result.Data = &model.ProductResponse{
		ID:           id,
		Name:         request.Name,
		PricePerGram: request.PricePerGram,
	}
	return result
}

func (c *CatalogUseCase) Remove(ctx context.Context, id int64) utils.Result {
	var result utils.Result

	product, err := c.ProductRepository.FindByID(ctx, id)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("catalog-usecase", fmt.Sprintf("find product: %v", err), "Remove", fmt.Sprint(id))
		return result
	}
	if product == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("product %d not found", id)
		result.Error = errObj
		return result
	}

	if _, err := c.ProductRepository.Delete(ctx, id); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("catalog-usecase", fmt.Sprintf("delete product: %v", err), "Remove", fmt.Sprint(id))
		return result
	}

	result.Data = &model.ProductResponse{
		ID:           product.ID,
		Name:         product.Name,
		PricePerGram: product.PricePerGram,
	}
	return result
}
