package usecase

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"shop-service/src/internal/model"
	"shop-service/src/internal/repository"
	httpError "shop-service/src/pkg/http-error"
	"shop-service/src/pkg/log"
	"shop-service/src/pkg/utils"
)

const (
	PurchaseModeBalance  = "balance"
	PurchaseModePostpaid = "postpaid"

	MinWeightGrams = 0.1
	MaxWeightGrams = 5.0
)

// PurchaseUseCase is the purchase conversation state machine. Each step is a
// pure transition over the explicit session value; side effects (catalog
// reads, balance debit, order creation) are injected collaborators.
type PurchaseUseCase struct {
	Log               log.Log
	Sessions          repository.SessionStore
	UserRepository    *repository.UserRepository
	ProductRepository *repository.ProductRepository
	OrderUseCase      *OrderUseCase
	Config            *viper.Viper
}

func NewPurchaseUseCase(
	logger log.Log,
	sessions repository.SessionStore,
	userRepository *repository.UserRepository,
	productRepository *repository.ProductRepository,
	orderUseCase *OrderUseCase,
	cfg *viper.Viper,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		Log:               logger,
		Sessions:          sessions,
		UserRepository:    userRepository,
		ProductRepository: productRepository,
		OrderUseCase:      orderUseCase,
		Config:            cfg,
	}
}

func (c *PurchaseUseCase) balanceFunded() bool {
	return c.Config.GetString("purchase.mode") != PurchaseModePostpaid
}

// expireSession resets the flow when a later state is reached with missing
// context. Distinct from validation errors: the user must start over.
func (c *PurchaseUseCase) expireSession(ctx context.Context, userID string) *httpError.CommonError {
	if err := c.Sessions.Clear(ctx, userID); err != nil {
		c.Log.Warn("purchase-usecase", fmt.Sprintf("clear session: %v", err), "expireSession", userID)
	}
	return httpError.NewGone()
}

// OpenCatalog starts the flow. The delivery city must be set first so the
// confirmation step never captures an empty destination.
func (c *PurchaseUseCase) OpenCatalog(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	user, err := c.UserRepository.FindByID(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("find user: %v", err), "OpenCatalog", userID)
		return result
	}
	if user == nil || !user.City.Valid || user.City.String == "" {
		errObj := httpError.NewBadRequest()
		errObj.Message = "set your city before opening the catalog"
		result.Error = errObj
		return result
	}

	products, err := c.ProductRepository.List(ctx)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("list products: %v", err), "OpenCatalog", userID)
		return result
	}
	if len(products) == 0 {
		errObj := httpError.NewNotFound()
		errObj.Message = "the catalog is empty"
		result.Error = errObj
		return result
	}

	session := &model.PurchaseSession{State: model.PurchaseStateChoosingProduct}
	if err := c.Sessions.Save(ctx, userID, session); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("save session: %v", err), "OpenCatalog", userID)
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
	result.Data = &model.CatalogResponse{Products: responses}
	return result
}

// ChooseProduct advances ChoosingProduct -> ChoosingAmount when the product
// still exists; otherwise the state does not move.
func (c *PurchaseUseCase) ChooseProduct(ctx context.Context, userID string, productID int64) utils.Result {
	var result utils.Result

	session, err := c.Sessions.Get(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("get session: %v", err), "ChooseProduct", userID)
		return result
	}
	if session == nil || session.State != model.PurchaseStateChoosingProduct {
		result.Error = c.expireSession(ctx, userID)
		return result
	}

	product, err := c.ProductRepository.FindByID(ctx, productID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("find product: %v", err), "ChooseProduct", userID)
		return result
	}
	if product == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = "product is no longer available"
		result.Error = errObj
		return result
	}

	session.State = model.PurchaseStateChoosingAmount
	session.ProductID = product.ID
	session.ProductName = product.Name
	session.UnitPrice = product.PricePerGram
	if err := c.Sessions.Save(ctx, userID, session); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("save session: %v", err), "ChooseProduct", userID)
		return result
	}

	result.Data = &model.AmountPromptResponse{
		ProductName: product.Name,
		UnitPrice:   product.PricePerGram,
	}
	return result
}

// EnterWeight advances ChoosingAmount -> Confirming. The weight must parse
// and lie within [0.1, 5] grams inclusive; the total is computed here, once.
func (c *PurchaseUseCase) EnterWeight(ctx context.Context, userID, text string) utils.Result {
	var result utils.Result

	session, err := c.Sessions.Get(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("get session: %v", err), "EnterWeight", userID)
		return result
	}
	if session == nil || session.State != model.PurchaseStateChoosingAmount ||
		session.ProductID == 0 || session.UnitPrice == 0 {
		result.Error = c.expireSession(ctx, userID)
		return result
	}

	weight, err := utils.ParseDecimal(text)
	if err != nil || weight < MinWeightGrams || weight > MaxWeightGrams {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("enter a number between %g and %g", MinWeightGrams, MaxWeightGrams)
		result.Error = errObj
		return result
	}

	total := utils.Round2(weight * session.UnitPrice)

	user, err := c.UserRepository.FindByID(ctx, userID)
	if err != nil || user == nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("find user: %v", err), "EnterWeight", userID)
		return result
	}

	if c.balanceFunded() && user.Balance < total {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = fmt.Sprintf("insufficient funds: need %.2f, have %.2f", total, user.Balance)
		result.Error = errObj
		return result
	}

	session.State = model.PurchaseStateConfirming
	session.Weight = weight
	session.Total = total
	if err := c.Sessions.Save(ctx, userID, session); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("save session: %v", err), "EnterWeight", userID)
		return result
	}

	result.Data = &model.ConfirmPromptResponse{
		ProductName: session.ProductName,
		UnitPrice:   session.UnitPrice,
		Weight:      weight,
		Total:       total,
		City:        user.City.String,
	}
	return result
}

// Confirm completes the flow: debit (balance mode) and order creation. The
// debit is a guarded relative decrement, so overlapping purchases from one
// user can never spend the same funds twice.
func (c *PurchaseUseCase) Confirm(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	session, err := c.Sessions.Get(ctx, userID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("get session: %v", err), "Confirm", userID)
		return result
	}
	if session == nil || session.State != model.PurchaseStateConfirming ||
		session.ProductID == 0 || session.Weight == 0 || session.Total == 0 {
		result.Error = c.expireSession(ctx, userID)
		return result
	}

	product, err := c.ProductRepository.FindByID(ctx, session.ProductID)
	if err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("find product: %v", err), "Confirm", userID)
		return result
	}
	if product == nil {
		result.Error = c.expireSession(ctx, userID)
		return result
	}

	user, err := c.UserRepository.FindByID(ctx, userID)
	if err != nil || user == nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("find user: %v", err), "Confirm", userID)
		return result
	}

	if c.balanceFunded() {
		debited, err := c.UserRepository.DebitBalance(ctx, userID, session.Total)
		if err != nil {
			result.Error = httpError.NewInternalServer()
			c.Log.Error("purchase-usecase", fmt.Sprintf("debit balance: %v", err), "Confirm", userID)
			return result
		}
		if !debited {
			errObj := httpError.NewUnprocessableEntity()
			errObj.Message = "insufficient funds"
			result.Error = errObj
			return result
		}
	}

	created := c.OrderUseCase.Create(ctx, &model.CreateOrderRequest{
		UserID:      userID,
		ReferrerID:  user.ReferrerID.String,
		ProductName: session.ProductName,
		UnitPrice:   session.UnitPrice,
		Weight:      session.Weight,
		Total:       session.Total,
		City:        user.City.String,
	})
	if created.Error != nil {
		// the order did not persist; hand the funds back in balance mode
		if c.balanceFunded() {
			if err := c.UserRepository.AddBalance(ctx, userID, session.Total); err != nil {
				c.Log.Error("purchase-usecase", fmt.Sprintf("refund after failed order: %v", err), "Confirm", userID)
			}
		}
		result.Error = created.Error
		return result
	}

	if err := c.Sessions.Clear(ctx, userID); err != nil {
		c.Log.Warn("purchase-usecase", fmt.Sprintf("clear session: %v", err), "Confirm", userID)
	}

	order := created.Data.(*model.OrderResponse)
	result.Data = &model.PurchaseResultResponse{
		OrderID: order.OrderID,
		Total:   order.Total,
	}
	return result
}

// Cancel aborts the flow from any non-terminal state and clears the context.
func (c *PurchaseUseCase) Cancel(ctx context.Context, userID string) utils.Result {
	var result utils.Result

	if err := c.Sessions.Clear(ctx, userID); err != nil {
		result.Error = httpError.NewInternalServer()
		c.Log.Error("purchase-usecase", fmt.Sprintf("clear session: %v", err), "Cancel", userID)
		return result
	}

	result.Data = true
	return result
}
